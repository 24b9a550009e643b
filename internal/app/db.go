package app

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/tempizhere/golists/internal/repository"
)

// DB представляет подключение к базе данных
type DB struct {
	conn *sql.DB
}

// NewDB создаёт новое подключение к базе данных и готовит схему
func NewDB(dsn string) (repository.Database, error) {
	if dsn == "" {
		return nil, nil
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	// Создаём таблицу списков, уникальность slug закрывает гонки на уровне БД
	_, err = conn.Exec(`
        CREATE TABLE IF NOT EXISTS lists (
            id VARCHAR(16) PRIMARY KEY,
            name TEXT NOT NULL,
            title TEXT,
            description TEXT,
            slug VARCHAR(64) UNIQUE,
            published BOOLEAN NOT NULL DEFAULT FALSE,
            published_at TIMESTAMP,
            user_id VARCHAR,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		conn.Close()
		return nil, err
	}

	// Ссылки удаляются каскадно вместе со списком
	_, err = conn.Exec(`
        CREATE TABLE IF NOT EXISTS list_urls (
            id VARCHAR(16) PRIMARY KEY,
            list_id VARCHAR(16) NOT NULL REFERENCES lists(id) ON DELETE CASCADE,
            url TEXT NOT NULL,
            title TEXT,
            description TEXT,
            image_url TEXT,
            created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		conn.Close()
		return nil, err
	}

	_, err = conn.Exec("CREATE INDEX IF NOT EXISTS list_urls_list_id_idx ON list_urls (list_id)")
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// Ping проверяет соединение с базой данных
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Close закрывает соединение с базой данных
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Exec выполняет SQL-запрос с аргументами
func (db *DB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query выполняет SQL-запрос и возвращает множество строк
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow выполняет SQL-запрос и возвращает одну строку
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// Begin начинает транзакцию
func (db *DB) Begin() (*sql.Tx, error) {
	if db == nil || db.conn == nil {
		return nil, sql.ErrConnDone
	}
	return db.conn.Begin()
}
