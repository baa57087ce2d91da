package configwatcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"marketing_edu_backend/internal/config"
	"marketing_edu_backend/pkg/logger"
)

// Watch 监听配置目录下 config.yaml 的变更并重新加载配置
// 回调在重新加载成功后触发
func Watch(configDir string, onReload func(*config.Config)) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return nil, err
	}

	configFile := filepath.Join(configDir, "config.yaml")

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(configFile) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				// 编辑器保存往往触发多个事件，去抖 1 秒
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(time.Second, func() {
					cfg, err := config.LoadConfig(configDir)
					if err != nil {
						logger.Log.Warn("配置重载失败", zap.Error(err))
						return
					}
					logger.Log.Info("配置文件已重新加载", zap.String("path", configFile))
					if onReload != nil {
						onReload(cfg)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("配置监听错误", zap.Error(err))
			}
		}
	}()

	return watcher, nil
}
