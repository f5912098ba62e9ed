package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_schema.sql
var createSchemaSQL string

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(createSchemaSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.Exec(`
				DROP TABLE IF EXISTS flashcard_reviews;
				DROP TABLE IF EXISTS flashcards;
				DROP TABLE IF EXISTS flashcard_decks;
				DROP TABLE IF EXISTS lesson_progress;
				DROP TABLE IF EXISTS course_enrollments;
				DROP TABLE IF EXISTS quiz_attempts;
				DROP TABLE IF EXISTS quiz_questions;
				DROP TABLE IF EXISTS quizzes;
				DROP TABLE IF EXISTS lessons;
				DROP TABLE IF EXISTS courses;
				DROP TABLE IF EXISTS users;
			`)
			return err
		},
	)
}
