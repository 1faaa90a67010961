package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Watcher 配置热加载监听器, 基于 fsnotify 监听配置文件变更
type Watcher struct {
	mu        sync.RWMutex
	current   *Config
	viper     *viper.Viper
	logger    *logrus.Logger
	callbacks []func(*Config)
	stopped   bool
}

// NewWatcher 创建配置监听器
func NewWatcher(cfg *Config, configPath string, logger *logrus.Logger) *Watcher {
	v := viper.New()
	v.SetConfigFile(configPath)

	return &Watcher{
		current: cfg,
		viper:   v,
		logger:  logger,
	}
}

// OnChange 注册配置变更回调
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start 启动监听; 配置文件必须存在且可解析
func (w *Watcher) Start() error {
	if err := w.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	w.viper.WatchConfig()
	w.viper.OnConfigChange(func(e fsnotify.Event) {
		w.mu.RLock()
		stopped := w.stopped
		callbacks := make([]func(*Config), len(w.callbacks))
		copy(callbacks, w.callbacks)
		w.mu.RUnlock()

		if stopped {
			return
		}

		var next Config
		if err := w.viper.Unmarshal(&next); err != nil {
			w.logger.WithError(err).WithField("file", e.Name).Warn("config reload failed")
			return
		}

		w.mu.Lock()
		w.current = &next
		w.mu.Unlock()

		w.logger.WithField("file", e.Name).Info("config reloaded")

		// 回调在锁外执行
		for _, fn := range callbacks {
			fn(&next)
		}
	})

	return nil
}

// Stop 停止处理后续变更事件
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}

// Current 获取当前配置
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}
