package db

import "database/sql"

func Migrate(db *sql.DB, d Dialect) error {
	stmts := sqliteSchema
	if d == DialectPostgres {
		stmts = postgresSchema
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON;`,

	`CREATE TABLE IF NOT EXISTS employee (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		sex TEXT NOT NULL DEFAULT '',
		id_number TEXT NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 1 CHECK(status IN (0,1)),
		create_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		update_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		create_user INTEGER NULL,
		update_user INTEGER NULL
	);`,

	`CREATE TABLE IF NOT EXISTS category (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type INTEGER NOT NULL CHECK(type IN (1,2)),
		name TEXT NOT NULL UNIQUE,
		sort INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 1,
		create_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		update_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		create_user INTEGER NULL,
		update_user INTEGER NULL
	);`,

	`CREATE TABLE IF NOT EXISTS dish (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category_id INTEGER NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 0 CHECK(status IN (0,1)),
		create_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		update_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		create_user INTEGER NULL,
		update_user INTEGER NULL,
		FOREIGN KEY(category_id) REFERENCES category(id) ON DELETE RESTRICT
	);`,

	`CREATE TABLE IF NOT EXISTS dish_flavor (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dish_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		UNIQUE(dish_id, name),
		FOREIGN KEY(dish_id) REFERENCES dish(id) ON DELETE CASCADE
	);`,

	`CREATE TABLE IF NOT EXISTS setmeal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL,
		name TEXT NOT NULL UNIQUE,
		price REAL NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 0 CHECK(status IN (0,1)),
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		create_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		update_time INTEGER NOT NULL DEFAULT (strftime('%s','now')),
		create_user INTEGER NULL,
		update_user INTEGER NULL,
		FOREIGN KEY(category_id) REFERENCES category(id) ON DELETE RESTRICT
	);`,

	// dish_id carries no FK: the setmeal reference is a service-level rule.
	`CREATE TABLE IF NOT EXISTS setmeal_dish (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		setmeal_id INTEGER NOT NULL,
		dish_id INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		copies INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY(setmeal_id) REFERENCES setmeal(id) ON DELETE CASCADE
	);`,

	`CREATE INDEX IF NOT EXISTS idx_dish_category ON dish(category_id, create_time);`,
	`CREATE INDEX IF NOT EXISTS idx_dish_flavor_dish ON dish_flavor(dish_id);`,
	`CREATE INDEX IF NOT EXISTS idx_setmeal_dish_dish ON setmeal_dish(dish_id);`,
	`CREATE INDEX IF NOT EXISTS idx_employee_create ON employee(create_time);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS employee (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(32) NOT NULL,
		username VARCHAR(32) NOT NULL UNIQUE,
		password VARCHAR(64) NOT NULL,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		sex VARCHAR(2) NOT NULL DEFAULT '',
		id_number VARCHAR(32) NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 1 CHECK(status IN (0,1)),
		create_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		update_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		create_user BIGINT NULL,
		update_user BIGINT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS category (
		id BIGSERIAL PRIMARY KEY,
		type INTEGER NOT NULL CHECK(type IN (1,2)),
		name VARCHAR(32) NOT NULL UNIQUE,
		sort INTEGER NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 1,
		create_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		update_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		create_user BIGINT NULL,
		update_user BIGINT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS dish (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(32) NOT NULL UNIQUE,
		category_id BIGINT NOT NULL REFERENCES category(id) ON DELETE RESTRICT,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		image VARCHAR(255) NOT NULL DEFAULT '',
		description VARCHAR(255) NOT NULL DEFAULT '',
		status INTEGER NOT NULL DEFAULT 0 CHECK(status IN (0,1)),
		create_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		update_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		create_user BIGINT NULL,
		update_user BIGINT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS dish_flavor (
		id BIGSERIAL PRIMARY KEY,
		dish_id BIGINT NOT NULL REFERENCES dish(id) ON DELETE CASCADE,
		name VARCHAR(32) NOT NULL,
		value VARCHAR(255) NOT NULL DEFAULT '',
		UNIQUE(dish_id, name)
	);`,

	`CREATE TABLE IF NOT EXISTS setmeal (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES category(id) ON DELETE RESTRICT,
		name VARCHAR(32) NOT NULL UNIQUE,
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		status INTEGER NOT NULL DEFAULT 0 CHECK(status IN (0,1)),
		description VARCHAR(255) NOT NULL DEFAULT '',
		image VARCHAR(255) NOT NULL DEFAULT '',
		create_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		update_time BIGINT NOT NULL DEFAULT extract(epoch from now())::bigint,
		create_user BIGINT NULL,
		update_user BIGINT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS setmeal_dish (
		id BIGSERIAL PRIMARY KEY,
		setmeal_id BIGINT NOT NULL REFERENCES setmeal(id) ON DELETE CASCADE,
		dish_id BIGINT NOT NULL,
		name VARCHAR(32) NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL DEFAULT 0,
		copies INTEGER NOT NULL DEFAULT 1
	);`,

	`CREATE INDEX IF NOT EXISTS idx_dish_category ON dish(category_id, create_time);`,
	`CREATE INDEX IF NOT EXISTS idx_dish_flavor_dish ON dish_flavor(dish_id);`,
	`CREATE INDEX IF NOT EXISTS idx_setmeal_dish_dish ON setmeal_dish(dish_id);`,
	`CREATE INDEX IF NOT EXISTS idx_employee_create ON employee(create_time);`,
}
