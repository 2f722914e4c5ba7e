// Command seed loads the roster and a season's game slate into the
// database from a YAML file.
//
// Usage: seed [season.yaml]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pickemgo/pickem-backend/internal/config"
	"github.com/pickemgo/pickem-backend/internal/models"
	"github.com/pickemgo/pickem-backend/internal/store"
)

type SeedFile struct {
	Season  int `yaml:"season"`
	Players []struct {
		Name string `yaml:"name"`
		Slot int    `yaml:"slot"`
	} `yaml:"players"`
	Games []struct {
		Week    int       `yaml:"week"`
		Away    string    `yaml:"away"`
		Home    string    `yaml:"home"`
		Spread  float64   `yaml:"spread"`
		OUTotal float64   `yaml:"ou_total"`
		Kickoff time.Time `yaml:"kickoff"`
	} `yaml:"games"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := "season.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if seed.Season == 0 {
		return fmt.Errorf("%s: season is required", path)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return err
	}
	if err := store.AutoMigrate(db); err != nil {
		return err
	}

	for _, p := range seed.Players {
		player := models.Player{Name: p.Name, DraftSlot: p.Slot, Active: true}
		err := db.Where(models.Player{Name: p.Name}).
			Assign(models.Player{DraftSlot: p.Slot, Active: true}).
			FirstOrCreate(&player).Error
		if err != nil {
			return fmt.Errorf("seed player %s: %w", p.Name, err)
		}
	}

	for _, g := range seed.Games {
		game := models.Game{
			Season:  seed.Season,
			Week:    g.Week,
			Away:    g.Away,
			Home:    g.Home,
			Spread:  g.Spread,
			OUTotal: g.OUTotal,
			Kickoff: g.Kickoff,
		}
		err := db.Where(models.Game{Season: seed.Season, Week: g.Week, Away: g.Away, Home: g.Home}).
			Assign(models.Game{Spread: g.Spread, OUTotal: g.OUTotal, Kickoff: g.Kickoff}).
			FirstOrCreate(&game).Error
		if err != nil {
			return fmt.Errorf("seed game %s@%s week %d: %w", g.Away, g.Home, g.Week, err)
		}
	}

	fmt.Printf("seeded %d players and %d games for season %d\n",
		len(seed.Players), len(seed.Games), seed.Season)
	return nil
}
