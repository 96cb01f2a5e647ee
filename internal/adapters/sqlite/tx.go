package sqlite

import (
	"database/sql"
	"fmt"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// tourTx implements ports.TourTx
type tourTx struct {
	tx *sql.Tx
}

// Ensure tourTx implements TourTx
var _ ports.TourTx = (*tourTx)(nil)

// CreateCategory inserts a category. A zero parentID makes it a root
// category. The generated id is written back to c.ID.
func (t *tourTx) CreateCategory(c *domain.Category, parentID int64) error {
	c.IsRoot = parentID == 0
	res, err := t.tx.Exec(`
		INSERT INTO tourtagcategory (category_id, name, is_root)
		VALUES (NULLIF(?, 0), ?, ?)
	`, c.ID, c.Name, c.IsRoot)
	if err != nil {
		return err
	}
	if c.ID == 0 {
		if c.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	if parentID != 0 {
		_, err = t.tx.Exec(`
			INSERT INTO tourtagcategory_tourtagcategory (parent_id, child_id) VALUES (?, ?)
		`, parentID, c.ID)
	}
	return err
}

// CreateTag inserts a tag. A zero categoryID makes it a root tag.
func (t *tourTx) CreateTag(tag *domain.Tag, categoryID int64) error {
	tag.IsRoot = categoryID == 0
	res, err := t.tx.Exec(`
		INSERT INTO tourtag (tag_id, name, is_root, expand_type)
		VALUES (NULLIF(?, 0), ?, ?, ?)
	`, tag.ID, tag.Name, tag.IsRoot, int(tag.ExpandType))
	if err != nil {
		return err
	}
	if tag.ID == 0 {
		if tag.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}
	if categoryID != 0 {
		_, err = t.tx.Exec(`
			INSERT INTO tourtagcategory_tourtag (category_id, tag_id) VALUES (?, ?)
		`, categoryID, tag.ID)
	}
	return err
}

// UpsertTour inserts or replaces a tour row. Existing tag links are kept.
func (t *tourTx) UpsertTour(rec *domain.TourRecord) error {
	start := rec.Start.UTC()
	tot := rec.Totals
	_, err := t.tx.Exec(`
		INSERT INTO tourdata (
			tour_id, start_time, start_year, start_month, title, tour_type_id,
			distance, elapsed_time, moving_time, altitude_up, altitude_down,
			max_pulse, max_altitude, max_speed,
			avg_pulse, avg_cadence, avg_temperature, recorded_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tour_id) DO UPDATE SET
			start_time = excluded.start_time,
			start_year = excluded.start_year,
			start_month = excluded.start_month,
			title = excluded.title,
			tour_type_id = excluded.tour_type_id,
			distance = excluded.distance,
			elapsed_time = excluded.elapsed_time,
			moving_time = excluded.moving_time,
			altitude_up = excluded.altitude_up,
			altitude_down = excluded.altitude_down,
			max_pulse = excluded.max_pulse,
			max_altitude = excluded.max_altitude,
			max_speed = excluded.max_speed,
			avg_pulse = excluded.avg_pulse,
			avg_cadence = excluded.avg_cadence,
			avg_temperature = excluded.avg_temperature,
			recorded_time = excluded.recorded_time
	`,
		rec.ID, start.Unix(), start.Year(), int(start.Month()), rec.Title, rec.TypeID,
		tot.Distance, tot.ElapsedTime, tot.MovingTime, tot.AltitudeUp, tot.AltitudeDown,
		tot.MaxPulse, tot.MaxAltitude, tot.MaxSpeed,
		tot.AvgPulse, tot.AvgCadence, tot.AvgTemperature, tot.RecordedTime,
	)
	return err
}

// DeleteTours removes tours and their tag links
func (t *tourTx) DeleteTours(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	in := placeholders(len(ids))
	if _, err := t.tx.Exec(`DELETE FROM tourdata_tourtag WHERE tour_id IN (`+in+`)`, int64Args(ids)...); err != nil {
		return err
	}
	_, err := t.tx.Exec(`DELETE FROM tourdata WHERE tour_id IN (`+in+`)`, int64Args(ids)...)
	return err
}

// RetitleTour changes a tour's title
func (t *tourTx) RetitleTour(id int64, title string) error {
	res, err := t.tx.Exec(`UPDATE tourdata SET title = ? WHERE tour_id = ?`, title, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("tour %d does not exist", id)
	}
	return nil
}

// TagTours links tours to a tag. Links that already exist are kept.
func (t *tourTx) TagTours(tagID int64, tourIDs []int64) error {
	for _, id := range tourIDs {
		if _, err := t.tx.Exec(`
			INSERT OR IGNORE INTO tourdata_tourtag (tag_id, tour_id) VALUES (?, ?)
		`, tagID, id); err != nil {
			return fmt.Errorf("failed to tag tour %d: %w", id, err)
		}
	}
	return nil
}

// UntagTours removes the links between a tag and tours
func (t *tourTx) UntagTours(tagID int64, tourIDs []int64) error {
	if len(tourIDs) == 0 {
		return nil
	}
	args := append([]any{tagID}, int64Args(tourIDs)...)
	_, err := t.tx.Exec(`
		DELETE FROM tourdata_tourtag WHERE tag_id = ? AND tour_id IN (`+placeholders(len(tourIDs))+`)
	`, args...)
	return err
}

// Commit commits the transaction
func (t *tourTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *tourTx) Rollback() error {
	return t.tx.Rollback()
}
