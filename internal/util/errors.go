package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrLabNotFound      = errors.New("lab not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrReportNotReady   = errors.New("lab has no result to export yet")
)
