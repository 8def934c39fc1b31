package repositories

import (
	"database/sql"
	"strings"

	intconfig "tripdesk/internal/config"
	intdb "tripdesk/internal/db"
	"tripdesk/internal/domain"
	"tripdesk/internal/domain/models"
	"tripdesk/internal/itinerary"

	"github.com/shopspring/decimal"
)

// MarkupConfig is the loaded agent markup configuration, keyed by item type.
// It satisfies the engine's MarkupPolicy so a markup edit can be validated
// without the store knowing where the numbers come from.
type MarkupConfig map[itinerary.ItemType]models.MarkupSetting

func (c MarkupConfig) MinimumFor(t itinerary.ItemType) (decimal.Decimal, bool) {
	s, ok := c[t]
	if !ok {
		return decimal.Zero, false
	}
	return s.MinimumMarkup, true
}

func (c MarkupConfig) DefaultFor(t itinerary.ItemType) (models.MarkupSetting, bool) {
	s, ok := c[t]
	return s, ok
}

// defaultMarkupConfig applies when the settings table is absent or empty:
// 10% default on everything, no floor.
func defaultMarkupConfig() MarkupConfig {
	cfg := MarkupConfig{}
	for _, t := range []itinerary.ItemType{itinerary.TypeFlight, itinerary.TypeHotel, itinerary.TypeTour, itinerary.TypeTransfer} {
		cfg[t] = models.MarkupSetting{
			ItemType:      string(t),
			DefaultMarkup: decimal.NewFromInt(10),
			MinimumMarkup: decimal.Zero,
			MarkupType:    string(itinerary.MarkupPercentage),
		}
	}
	return cfg
}

// MarkupRepository wraps DB access for agent_markup_settings.
type MarkupRepository struct {
	DB *sql.DB
}

func (r MarkupRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Load reads the agent configuration, falling back to built-in defaults for
// any type without a row.
func (r MarkupRepository) Load() (MarkupConfig, error) {
	cfg := defaultMarkupConfig()

	db := r.db()
	if db == nil || !intdb.HasTable(db, "agent_markup_settings") {
		return cfg, nil
	}

	// older deployments predate the markup_type column
	sel := `SELECT item_type, default_markup, minimum_markup, COALESCE(markup_type,'percentage')
		FROM agent_markup_settings`
	if !intdb.HasColumn(db, "agent_markup_settings", "markup_type") {
		sel = `SELECT item_type, default_markup, minimum_markup, 'percentage'
		FROM agent_markup_settings`
	}

	rows, err := db.Query(sel)
	if err != nil {
		return cfg, domain.InternalError{Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var s models.MarkupSetting
		if err := rows.Scan(&s.ItemType, &s.DefaultMarkup, &s.MinimumMarkup, &s.MarkupType); err != nil {
			return cfg, domain.InternalError{Err: err}
		}
		t, err := itinerary.ParseItemType(s.ItemType)
		if err != nil {
			continue // unknown type rows are ignored, not fatal
		}
		s.ItemType = string(t)
		cfg[t] = s
	}
	if err := rows.Err(); err != nil {
		return cfg, domain.InternalError{Err: err}
	}
	return cfg, nil
}

// Upsert stores one item type's setting, creating the table on first use.
func (r MarkupRepository) Upsert(s models.MarkupSetting) error {
	t, err := itinerary.ParseItemType(s.ItemType)
	if err != nil {
		return err
	}
	if _, err := itinerary.ParseMarkupType(s.MarkupType); err != nil {
		return err
	}
	if s.MinimumMarkup.IsNegative() || s.DefaultMarkup.IsNegative() {
		return domain.ValidationError{Field: "markup", Msg: "markup must not be negative"}
	}

	db := r.db()
	if !intdb.HasTable(db, "agent_markup_settings") {
		if err := r.ensureTable(); err != nil {
			return domain.InternalError{Err: err}
		}
	}

	mt := strings.TrimSpace(s.MarkupType)
	if mt == "" {
		mt = string(itinerary.MarkupPercentage)
	}
	_, err = db.Exec(`
		INSERT INTO agent_markup_settings (item_type, default_markup, minimum_markup, markup_type)
		VALUES (?,?,?,?)
		ON DUPLICATE KEY UPDATE default_markup=VALUES(default_markup), minimum_markup=VALUES(minimum_markup), markup_type=VALUES(markup_type)
	`, string(t), s.DefaultMarkup, s.MinimumMarkup, mt)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r MarkupRepository) ensureTable() error {
	ddl := `
CREATE TABLE IF NOT EXISTS agent_markup_settings (
	item_type VARCHAR(20) NOT NULL PRIMARY KEY,
	default_markup DECIMAL(12,4) NOT NULL DEFAULT 0,
	minimum_markup DECIMAL(12,4) NOT NULL DEFAULT 0,
	markup_type VARCHAR(20) NOT NULL DEFAULT 'percentage'
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	_, err := r.db().Exec(ddl)
	return err
}
