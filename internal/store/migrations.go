package store

import (
	"encoding/json"
	"fmt"

	"github.com/nutrisync/backend/internal/types"
)

// MigrateFunc rewrites a payload from one envelope version to the next.
type MigrateFunc func(data json.RawMessage) (json.RawMessage, error)

// migrations[key][v] migrates key's payload from version v to v+1.
// Keys without an entry are carried forward unchanged across versions.
var migrations = map[string]map[int]MigrateFunc{
	KeyDailyGoals: {
		1: migrateGoalsV1,
	},
	KeyUserProfile: {
		1: migrateProfileV1,
	},
}

// migrate walks the registered chain from the stored version up to
// CurrentVersion. Envelopes written before versioning carry version 0 and
// are treated as version 1. A version from the future is rejected so a
// newer writer's data is not silently mangled.
func migrate(key string, version int, data json.RawMessage) (json.RawMessage, error) {
	if version == 0 {
		version = 1
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("envelope version %d is newer than supported %d", version, CurrentVersion)
	}
	for v := version; v < CurrentVersion; v++ {
		fn := migrations[key][v]
		if fn == nil {
			continue
		}
		migrated, err := fn(data)
		if err != nil {
			return nil, fmt.Errorf("migrate %s v%d: %w", key, v, err)
		}
		data = migrated
	}
	return data, nil
}

// migrateGoalsV1 backfills nutrient keys introduced after the first goals
// format shipped (v1 payloads predate most micros).
func migrateGoalsV1(data json.RawMessage) (json.RawMessage, error) {
	var goals types.DailyGoals
	if err := json.Unmarshal(data, &goals); err != nil {
		return nil, err
	}
	goals.Backfill(types.DefaultDailyGoals())
	return json.Marshal(goals)
}

// migrateProfileV1 backfills the preference/enum fields added to the
// profile after v1.
func migrateProfileV1(data json.RawMessage) (json.RawMessage, error) {
	var profile types.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	profile.BackfillDefaults()
	return json.Marshal(profile)
}
