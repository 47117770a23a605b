package app

import (
	"sync"
	"time"

	"github.com/mesworks/prodorder/internal/domain"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

const configCacheTTL = 30 * time.Second

// ConfigManager reads system settings from the sys_config table with a short
// in-process cache.
type ConfigManager struct {
	dbp      DBProvider
	mu       sync.Mutex
	cache    map[string]string
	loadedAt time.Time
}

func NewConfigManager(dbp DBProvider) *ConfigManager {
	return &ConfigManager{dbp: dbp, cache: map[string]string{}}
}

func (m *ConfigManager) load() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if time.Since(m.loadedAt) < configCacheTTL && len(m.cache) > 0 {
		return m.cache
	}

	var rows []domain.SysConfig
	if err := m.dbp.DB().Find(&rows).Error; err != nil {
		zap.L().Error("failed to load system settings", zap.Error(err))
		return m.cache
	}

	cache := make(map[string]string, len(rows))
	for _, row := range rows {
		cache[row.Type+"."+row.Name] = row.Value
	}
	m.cache = cache
	m.loadedAt = time.Now()
	return m.cache
}

// Invalidate clears the cache so the next read hits the database.
func (m *ConfigManager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadedAt = time.Time{}
}

func (m *ConfigManager) GetString(category, key string) string {
	return m.load()[category+"."+key]
}

func (m *ConfigManager) GetInt64(category, key string) int64 {
	return cast.ToInt64(m.load()[category+"."+key])
}

func (m *ConfigManager) GetBool(category, key string) bool {
	return cast.ToBool(m.load()[category+"."+key])
}

// SetValue updates a single setting row and invalidates the cache.
func (m *ConfigManager) SetValue(category, key, value string) error {
	err := m.dbp.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", category, key).
		Update("value", value).Error
	if err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// DecodeCategory maps every setting of one category onto a struct using its
// mapstructure tags.
func (m *ConfigManager) DecodeCategory(category string, out interface{}) error {
	values := map[string]string{}
	for key, value := range m.load() {
		if len(key) > len(category)+1 && key[:len(category)+1] == category+"." {
			values[key[len(category)+1:]] = value
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}
