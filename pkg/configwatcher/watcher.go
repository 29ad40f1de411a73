package configwatcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"physics_edu_backend/internal/config"
	"physics_edu_backend/pkg/logger"
)

// ConfigReloader 收到重新解析成功的配置，由调用方决定怎么套用
type ConfigReloader func(cfg *config.Config)

const reloadDebounce = time.Second

// WatchConfig 监听配置文件变更并防抖重载。盯的是所在目录而不是文件本身：
// 编辑器保存通常写临时文件再改名，只 watch 原路径会在第一次改名后失联
func WatchConfig(configPath string, reloader ConfigReloader) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Log.Error("创建配置监听失败，热更新不可用", zap.Error(err))
		return
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		logger.Log.Error("解析配置路径失败，热更新不可用", zap.String("path", configPath), zap.Error(err))
		return
	}
	dir := filepath.Dir(absPath)
	if err := watcher.Add(dir); err != nil {
		logger.Log.Error("监听配置目录失败，热更新不可用", zap.String("dir", dir), zap.Error(err))
		return
	}

	timer := time.NewTimer(0)
	<-timer.C

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != absPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			newCfg, err := config.LoadConfig(dir)
			if err != nil {
				logger.Log.Error("重载配置失败，沿用旧配置", zap.Error(err))
				continue
			}
			logger.Log.Info("配置文件变更，已重新加载", zap.String("path", absPath))
			reloader(newCfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Error("配置监听出错", zap.Error(err))
		}
	}
}
