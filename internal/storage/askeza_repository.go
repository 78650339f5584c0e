package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/askeza/internal/constants"
	"github.com/julianstephens/askeza/internal/logger"
	"github.com/julianstephens/askeza/internal/models"
)

// AskezaRepository stores the active and completed collections as whole
// snapshots on top of a KeyValueStore.
type AskezaRepository struct {
	kv KeyValueStore
}

func NewAskezaRepository(kv KeyValueStore) *AskezaRepository {
	return &AskezaRepository{kv: kv}
}

func (r *AskezaRepository) LoadActiveAskezas() ([]models.Askeza, error) {
	return r.loadList(constants.KeyActiveAskezas)
}

func (r *AskezaRepository) LoadCompletedAskezas() ([]models.Askeza, error) {
	return r.loadList(constants.KeyCompletedAskezas)
}

func (r *AskezaRepository) SaveActiveAskezas(list []models.Askeza) error {
	return r.saveList(constants.KeyActiveAskezas, list)
}

func (r *AskezaRepository) SaveCompletedAskezas(list []models.Askeza) error {
	return r.saveList(constants.KeyCompletedAskezas, list)
}

// LoadLastCheckTimestamp returns nil when no check was recorded or the stored
// value cannot be parsed.
func (r *AskezaRepository) LoadLastCheckTimestamp() (*time.Time, error) {
	data, err := r.kv.LoadValue(constants.KeyLastCheck)
	if err != nil {
		return nil, fmt.Errorf("failed to load last check timestamp: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, string(data))
	if err != nil {
		logger.Warn("Discarding unreadable last check timestamp", "value", string(data), "error", err)
		return nil, nil
	}
	return &t, nil
}

func (r *AskezaRepository) SaveLastCheckTimestamp(t time.Time) error {
	if err := r.kv.SaveValue(constants.KeyLastCheck, []byte(t.Format(time.RFC3339Nano))); err != nil {
		return fmt.Errorf("failed to save last check timestamp: %w", err)
	}
	return nil
}

// loadList decodes a collection. A blob that fails to decode is treated as no
// data so a corrupted snapshot never blocks start-up.
func (r *AskezaRepository) loadList(key string) ([]models.Askeza, error) {
	data, err := r.kv.LoadValue(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if len(data) == 0 {
		return []models.Askeza{}, nil
	}

	var list []models.Askeza
	if err := json.Unmarshal(data, &list); err != nil {
		logger.Warn("Discarding undecodable askeza snapshot", "key", key, "error", err)
		return []models.Askeza{}, nil
	}
	if list == nil {
		list = []models.Askeza{}
	}
	return list, nil
}

func (r *AskezaRepository) saveList(key string, list []models.Askeza) error {
	if list == nil {
		list = []models.Askeza{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}
	if err := r.kv.SaveValue(key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
