package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tourtags/internal/domain"
	"tourtags/internal/ports"
)

// aggregateColumns is the Totals column order shared by every aggregate
// query. Sensor averages skip tours without a reading and are followed by
// the number of tours that had one.
const aggregateColumns = `
	COALESCE(SUM(td.distance), 0),
	COALESCE(SUM(td.elapsed_time), 0),
	COALESCE(SUM(td.moving_time), 0),
	COALESCE(SUM(td.altitude_up), 0),
	COALESCE(SUM(td.altitude_down), 0),
	COALESCE(MAX(td.max_pulse), 0),
	COALESCE(MAX(td.max_altitude), 0),
	COALESCE(MAX(td.max_speed), 0),
	COALESCE(AVG(NULLIF(td.avg_pulse, 0)), 0),
	COALESCE(AVG(NULLIF(td.avg_cadence, 0)), 0),
	COALESCE(AVG(NULLIF(td.avg_temperature, 0)), 0),
	COALESCE(SUM(td.recorded_time), 0),
	COUNT(NULLIF(td.avg_pulse, 0)),
	COUNT(NULLIF(td.avg_cadence, 0)),
	COUNT(NULLIF(td.avg_temperature, 0)),
	COUNT(DISTINCT td.tour_id)`

// tourColumns is the per-tour equivalent of aggregateColumns.
const tourColumns = `
	td.distance, td.elapsed_time, td.moving_time,
	td.altitude_up, td.altitude_down,
	td.max_pulse, td.max_altitude, td.max_speed,
	td.avg_pulse, td.avg_cadence, td.avg_temperature,
	td.recorded_time,
	CASE WHEN td.avg_pulse <> 0 THEN 1 ELSE 0 END,
	CASE WHEN td.avg_cadence <> 0 THEN 1 ELSE 0 END,
	CASE WHEN td.avg_temperature <> 0 THEN 1 ELSE 0 END`

// Aggregate returns one totals row per group of the query level
func (s *Store) Aggregate(ctx context.Context, q ports.AggregateQuery) ([]ports.AggregateRow, error) {
	var (
		query string
		args  []any
	)

	where, whereArgs := tourWhere(q.TourIDs, q.Filter)

	switch q.Level {
	case domain.VariantCategory:
		if len(q.CategoryIDs) == 0 {
			return nil, nil
		}
		query = `
			WITH RECURSIVE subtree(category_id, root_id) AS (
				SELECT category_id, category_id FROM tourtagcategory
				WHERE category_id IN (` + placeholders(len(q.CategoryIDs)) + `)
				UNION
				SELECT cc.child_id, subtree.root_id
				FROM tourtagcategory_tourtagcategory cc
				JOIN subtree ON cc.parent_id = subtree.category_id
			),
			members AS (
				SELECT DISTINCT subtree.root_id AS root_id, tt.tour_id AS tour_id
				FROM subtree
				JOIN tourtagcategory_tourtag ct ON ct.category_id = subtree.category_id
				JOIN tourdata_tourtag tt ON tt.tag_id = ct.tag_id
			)
			SELECT m.root_id, ` + aggregateColumns + `
			FROM members m
			JOIN tourdata td ON td.tour_id = m.tour_id
			WHERE 1 = 1` + where + `
			GROUP BY m.root_id`
		args = append(int64Args(q.CategoryIDs), whereArgs...)

	case domain.VariantTag:
		if len(q.TagIDs) == 0 {
			return nil, nil
		}
		query = `
			SELECT tt.tag_id, ` + aggregateColumns + `
			FROM tourdata_tourtag tt
			JOIN tourdata td ON td.tour_id = tt.tour_id
			WHERE tt.tag_id IN (` + placeholders(len(q.TagIDs)) + `)` + where + `
			GROUP BY tt.tag_id`
		args = append(int64Args(q.TagIDs), whereArgs...)

	case domain.VariantYear:
		query = `
			SELECT td.start_year, ` + aggregateColumns + `
			FROM tourdata_tourtag tt
			JOIN tourdata td ON td.tour_id = tt.tour_id
			WHERE tt.tag_id = ?` + where + `
			GROUP BY td.start_year
			ORDER BY td.start_year`
		args = append([]any{q.TagID}, whereArgs...)

	case domain.VariantMonth:
		query = `
			SELECT td.start_month, ` + aggregateColumns + `
			FROM tourdata_tourtag tt
			JOIN tourdata td ON td.tour_id = tt.tour_id
			WHERE tt.tag_id = ? AND td.start_year = ?` + where + `
			GROUP BY td.start_month
			ORDER BY td.start_month`
		args = append([]any{q.TagID, q.Year}, whereArgs...)

	default:
		return nil, fmt.Errorf("unsupported aggregate level: %s", q.Level)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s totals: %w", q.Level, err)
	}
	defer rows.Close()

	var out []ports.AggregateRow
	for rows.Next() {
		var (
			row   ports.AggregateRow
			group int64
		)
		dest := append([]any{&group}, row.Totals.Columns(true)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		switch q.Level {
		case domain.VariantCategory:
			row.CategoryID = group
		case domain.VariantTag:
			row.TagID = group
		case domain.VariantYear:
			row.Year = int(group)
		case domain.VariantMonth:
			row.Month = int(group)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Details returns one row per (tour, tag) pair for the tours tagged
// q.TagID, ordered by start time with each tour's rows contiguous
func (s *Store) Details(ctx context.Context, q ports.DetailQuery) ([]ports.DetailRow, error) {
	var sb strings.Builder
	args := []any{q.TagID}

	sb.WriteString(`
		SELECT td.tour_id, td.start_time, td.title, td.tour_type_id, tags.tag_id, ` + tourColumns + `
		FROM tourdata_tourtag sel
		JOIN tourdata td ON td.tour_id = sel.tour_id
		JOIN tourdata_tourtag tags ON tags.tour_id = td.tour_id
		WHERE sel.tag_id = ?`)
	if q.Year != 0 {
		sb.WriteString(` AND td.start_year = ?`)
		args = append(args, q.Year)
	}
	if q.Month != 0 {
		sb.WriteString(` AND td.start_month = ?`)
		args = append(args, q.Month)
	}
	where, whereArgs := tourWhere(q.TourIDs, q.Filter)
	sb.WriteString(where)
	args = append(args, whereArgs...)
	sb.WriteString(` ORDER BY td.start_time, td.tour_id, tags.tag_id`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	var out []ports.DetailRow
	for rows.Next() {
		var (
			row   ports.DetailRow
			start int64
		)
		dest := append([]any{&row.TourID, &start, &row.Title, &row.TypeID, &row.TagID}, row.Totals.Columns(false)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row.Start = time.Unix(start, 0).UTC()
		out = append(out, row)
	}
	return out, rows.Err()
}

// tourWhere renders the optional tour restrictions as " AND ..." clauses
// over the td alias.
func tourWhere(tourIDs []int64, f domain.Filter) (string, []any) {
	var sb strings.Builder
	var args []any

	if len(tourIDs) > 0 {
		sb.WriteString(` AND td.tour_id IN (` + placeholders(len(tourIDs)) + `)`)
		args = append(args, int64Args(tourIDs)...)
	}
	if !f.From.IsZero() {
		sb.WriteString(` AND td.start_time >= ?`)
		args = append(args, f.From.Unix())
	}
	if !f.To.IsZero() {
		sb.WriteString(` AND td.start_time < ?`)
		args = append(args, f.To.Unix())
	}
	if len(f.TourTypeIDs) > 0 {
		sb.WriteString(` AND td.tour_type_id IN (` + placeholders(len(f.TourTypeIDs)) + `)`)
		args = append(args, int64Args(f.TourTypeIDs)...)
	}
	return sb.String(), args
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
