package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"tradejournal/internal/models"
	"tradejournal/internal/repository"
)

const (
	FeatureInboxImport          = "feature.inbox_import"
	FeatureIncludeOpenPositions = "feature.include_open_positions"
	FeatureRiskInference        = "feature.risk_inference"
)

func DefaultFeatureSwitches() map[string]bool {
	return map[string]bool{
		FeatureInboxImport:          true,
		FeatureIncludeOpenPositions: false,
		FeatureRiskInference:        true,
	}
}

var featureDescriptions = map[string]string{
	FeatureInboxImport:          "scheduled import of export pairs dropped in the inbox directory",
	FeatureIncludeOpenPositions: "report positions still open at the end of an upload",
	FeatureRiskInference:        "infer stop loss and price target from protective orders",
}

type SystemSettingsService struct {
	Repo repository.Repository
}

// Switch is a feature switch as exposed over the API.
type Switch struct {
	Key         string    `json:"key"`
	Enabled     bool      `json:"enabled"`
	Description string    `json:"description"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EnsureDefaultSwitches inserts missing switches. Stored values are never
// overwritten.
func (s *SystemSettingsService) EnsureDefaultSwitches(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	now := time.Now().UTC()
	for key, enabled := range DefaultFeatureSwitches() {
		existing, err := s.Repo.GetSystemSettingByKey(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		raw, _ := json.Marshal(enabled)
		item := &models.SystemSetting{
			Key:         key,
			Value:       datatypes.JSON(raw),
			Description: featureDescriptions[key],
			UpdatedBy:   "system",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Repo.UpsertSystemSetting(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *SystemSettingsService) IsEnabled(ctx context.Context, key string, fallback bool) bool {
	if s == nil || s.Repo == nil {
		return fallback
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	item, err := s.Repo.GetSystemSettingByKey(ctx, key)
	if err != nil || item == nil || len(item.Value) == 0 {
		return fallback
	}
	var enabled bool
	if err := json.Unmarshal(item.Value, &enabled); err != nil {
		return fallback
	}
	return enabled
}

func (s *SystemSettingsService) SetEnabled(ctx context.Context, key string, enabled bool, updatedBy string) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	key = strings.TrimSpace(key)
	if _, known := DefaultFeatureSwitches()[key]; !known {
		return ErrInvalidArgument
	}
	raw, _ := json.Marshal(enabled)
	item := &models.SystemSetting{
		Key:         key,
		Value:       datatypes.JSON(raw),
		Description: featureDescriptions[key],
		UpdatedBy:   strings.TrimSpace(updatedBy),
		UpdatedAt:   time.Now().UTC(),
	}
	return s.Repo.UpsertSystemSetting(ctx, item)
}

// Switches returns every known switch, falling back to defaults for keys that
// were never stored.
func (s *SystemSettingsService) Switches(ctx context.Context) ([]Switch, error) {
	defaults := DefaultFeatureSwitches()
	stored := map[string]models.SystemSetting{}
	if s != nil && s.Repo != nil {
		prefix := "feature."
		items, err := s.Repo.ListSystemSettings(ctx, repository.ListSystemSettingsParams{Prefix: &prefix, Limit: 500})
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			stored[it.Key] = it
		}
	}
	out := make([]Switch, 0, len(defaults))
	for key, def := range defaults {
		sw := Switch{Key: key, Enabled: def, Description: featureDescriptions[key]}
		if it, ok := stored[key]; ok {
			var enabled bool
			if err := json.Unmarshal(it.Value, &enabled); err == nil {
				sw.Enabled = enabled
			}
			sw.UpdatedBy = it.UpdatedBy
			sw.UpdatedAt = it.UpdatedAt
		}
		out = append(out, sw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
