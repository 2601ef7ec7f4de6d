package main

import (
	"context"

	"github.com/Veraticus/risky-journals/internal/config"
	"github.com/Veraticus/risky-journals/internal/rules"
	"github.com/Veraticus/risky-journals/internal/storage"
	"github.com/spf13/viper"
)

// ruleConfigFromViper assembles the rule settings from config, falling
// back to the defaults seeded in setRuleDefaults.
func ruleConfigFromViper() rules.Config {
	cfg := rules.Config{
		LateNightStartHour: viper.GetInt("rules.late_night.start_hour"),
		LateNightEndHour:   viper.GetInt("rules.late_night.end_hour"),
		RiskyMemoTerms:     viper.GetStringSlice("rules.risky_memo_terms"),
		TopPercentile:      viper.GetFloat64("rules.top_percentile"),
		FlagThreshold:      viper.GetInt("scan.flag_threshold"),
	}
	if len(cfg.RiskyMemoTerms) == 0 {
		cfg.RiskyMemoTerms = rules.DefaultConfig().RiskyMemoTerms
	}
	return cfg
}

// openStorage opens the run-history database and brings its schema up to
// date. Callers own the returned storage and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}

	store, err := storage.NewSQLiteStorage(config.ExpandPath(dbPath))
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	return store, nil
}
