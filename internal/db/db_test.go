package db

import (
	"testing"

	"github.com/psychiclamb/poster-tracker/internal/config"
	"github.com/psychiclamb/poster-tracker/internal/models"
)

func TestConnect_SQLiteInMemory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = ":memory:"

	conn, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !conn.Migrator().HasTable(&models.Topic{}) {
		t.Error("topics table missing after migration")
	}
}

func TestAllModels(t *testing.T) {
	all := AllModels()
	if len(all) != 1 {
		t.Fatalf("AllModels len = %d, want 1", len(all))
	}
	if _, ok := all[0].(*models.Topic); !ok {
		t.Errorf("AllModels[0] = %T, want *models.Topic", all[0])
	}
}
