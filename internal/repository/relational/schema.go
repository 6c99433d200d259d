package relational

// Statements run by Store.Init. Every statement is idempotent.
var schema = map[string][]string{
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS clinics (
			id             BIGSERIAL PRIMARY KEY,
			clinic_id      TEXT NOT NULL,
			clinic_name    TEXT NOT NULL,
			business_name  TEXT NOT NULL,
			street_address TEXT NOT NULL,
			city           TEXT NOT NULL,
			state          TEXT NOT NULL,
			country        TEXT NOT NULL,
			zip_code       TEXT NOT NULL,
			latitude       DOUBLE PRECISION,
			longitude      DOUBLE PRECISION,
			date_created   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT clinics_clinic_id_key UNIQUE (clinic_id)
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id                  BIGSERIAL PRIMARY KEY,
			clinic_id           BIGINT NOT NULL REFERENCES clinics (id) ON DELETE CASCADE,
			service_id          TEXT NOT NULL,
			service_name        TEXT NOT NULL,
			service_code        TEXT NOT NULL,
			service_description TEXT,
			average_price       DOUBLE PRECISION CHECK (average_price >= 0),
			is_active           BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_services_clinic_id ON services (clinic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_services_service_id ON services (service_id)`,
	},
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS clinics (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			clinic_id      TEXT NOT NULL,
			clinic_name    TEXT NOT NULL,
			business_name  TEXT NOT NULL,
			street_address TEXT NOT NULL,
			city           TEXT NOT NULL,
			state          TEXT NOT NULL,
			country        TEXT NOT NULL,
			zip_code       TEXT NOT NULL,
			latitude       REAL,
			longitude      REAL,
			date_created   TIMESTAMP NOT NULL,
			CONSTRAINT clinics_clinic_id_key UNIQUE (clinic_id)
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			clinic_id           INTEGER NOT NULL REFERENCES clinics (id) ON DELETE CASCADE,
			service_id          TEXT NOT NULL,
			service_name        TEXT NOT NULL,
			service_code        TEXT NOT NULL,
			service_description TEXT,
			average_price       REAL CHECK (average_price >= 0),
			is_active           BOOLEAN NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_services_clinic_id ON services (clinic_id)`,
		`CREATE INDEX IF NOT EXISTS idx_services_service_id ON services (service_id)`,
	},
}
