package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"quizgen/internal/models"
)

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id              UUID PRIMARY KEY,
    source_filename TEXT NOT NULL,
    questions       INTEGER NOT NULL,
    blocks          INTEGER NOT NULL,
    txt_filename    TEXT NOT NULL,
    pdf_filename    TEXT NOT NULL,
    pages           INTEGER NOT NULL,
    txt_url         TEXT NOT NULL DEFAULT '',
    pdf_url         TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertGeneration = `
INSERT INTO generations (id, source_filename, questions, blocks, txt_filename, pdf_filename, pages, txt_url, pdf_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const listGenerations = `
SELECT id, source_filename, questions, blocks, txt_filename, pdf_filename, pages, txt_url, pdf_url, created_at
FROM generations
ORDER BY created_at DESC
LIMIT $1`

// EnsureSchema creates the generations table if it is missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createGenerationsTable); err != nil {
		return fmt.Errorf("failed to create generations table: %w", err)
	}
	return nil
}

// Record stores one finished generation.
func (db *DB) Record(ctx context.Context, rec models.GenerationRecord) error {
	_, err := db.Pool.Exec(ctx, insertGeneration,
		rec.ID, rec.SourceFilename, rec.Questions, rec.Blocks,
		rec.TxtFilename, rec.PDFFilename, rec.Pages,
		rec.TxtURL, rec.PDFURL, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert generation %s: %w", rec.ID, err)
	}
	return nil
}

// Recent returns up to limit generations, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]models.GenerationRecord, error) {
	rows, err := db.Pool.Query(ctx, listGenerations, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.GenerationRecord, error) {
		var rec models.GenerationRecord
		err := row.Scan(&rec.ID, &rec.SourceFilename, &rec.Questions, &rec.Blocks,
			&rec.TxtFilename, &rec.PDFFilename, &rec.Pages,
			&rec.TxtURL, &rec.PDFURL, &rec.CreatedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan generations: %w", err)
	}
	return records, nil
}
