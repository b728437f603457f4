package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"grid-sim-go/internal/models"

	"github.com/dgraph-io/badger/v3"
)

const presetPrefix = "preset:"

// badgerRepository is the BadgerDB implementation of the PresetRepository.
type badgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository creates and returns a new repository instance connected to a BadgerDB database.
func NewBadgerRepository(dbPath string) (PresetRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	// 关闭 badger 自带日志, 错误仍通过返回值传递
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset db %s: %w", dbPath, err)
	}
	return &badgerRepository{db: db}, nil
}

func presetKey(name string) []byte {
	return []byte(presetPrefix + name)
}

// SavePreset 把预设序列化为 JSON 保存, 同名覆盖
func (r *badgerRepository) SavePreset(preset *models.Preset) error {
	if strings.TrimSpace(preset.Name) == "" {
		return errors.New("preset name must not be empty")
	}
	stored := *preset
	stored.Builtin = false
	stored.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(&stored)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(presetKey(preset.Name), data)
	})
}

func (r *badgerRepository) LoadPreset(name string) (*models.Preset, error) {
	var preset models.Preset

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(presetKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) == 0 {
				return fmt.Errorf("preset %q is empty in database", name)
			}
			return json.Unmarshal(val, &preset)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return &preset, nil
}

// ListPresets 按 key 前缀遍历, badger 的迭代顺序即名称的字节序
func (r *badgerRepository) ListPresets() ([]models.Preset, error) {
	presets := make([]models.Preset, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(presetPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var preset models.Preset
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &preset)
			}); err != nil {
				return fmt.Errorf("failed to decode %s: %w", item.Key(), err)
			}
			presets = append(presets, preset)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return presets, nil
}

func (r *badgerRepository) DeletePreset(name string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(presetKey(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
			}
			return err
		}
		return txn.Delete(presetKey(name))
	})
}

// Close gracefully closes the connection to the database.
func (r *badgerRepository) Close() error {
	return r.db.Close()
}
