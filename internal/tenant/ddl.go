package tenant

// DDL for a tenant's private tables. Every statement is idempotent so
// provisioning can be retried after a partial failure. Table names are
// unqualified: statements run with search_path set to the tenant
// schema, which is the isolation boundary (no cross-schema foreign
// keys).
//
// Barthel and MRC score columns are range-checked here rather than in
// application code, and the totals are generated columns: the database
// is the source of truth for score validity.
var tenantDDL = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255),
		phone VARCHAR(50),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS hospitals (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		client_id UUID REFERENCES clients(id),
		name VARCHAR(255) NOT NULL,
		address TEXT,
		phone VARCHAR(50),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		hospital_id UUID NOT NULL REFERENCES hospitals(id),
		name VARCHAR(255) NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL,
		hospital_id UUID REFERENCES hospitals(id),
		service_id UUID REFERENCES services(id),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		hospital_id UUID NOT NULL REFERENCES hospitals(id),
		service_id UUID REFERENCES services(id),
		name VARCHAR(255) NOT NULL,
		birth_date DATE,
		admission_date DATE NOT NULL,
		discharge_date DATE,
		diagnosis TEXT,
		bed VARCHAR(50),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS indicators (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id),
		service_id UUID REFERENCES services(id),
		type VARCHAR(100) NOT NULL,
		value NUMERIC,
		recorded_at DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS barthel_scales (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id),
		evaluated_at DATE NOT NULL,
		feeding SMALLINT NOT NULL CHECK (feeding IN (0, 5, 10)),
		bathing SMALLINT NOT NULL CHECK (bathing IN (0, 5)),
		grooming SMALLINT NOT NULL CHECK (grooming IN (0, 5)),
		dressing SMALLINT NOT NULL CHECK (dressing IN (0, 5, 10)),
		bowels SMALLINT NOT NULL CHECK (bowels IN (0, 5, 10)),
		bladder SMALLINT NOT NULL CHECK (bladder IN (0, 5, 10)),
		toilet_use SMALLINT NOT NULL CHECK (toilet_use IN (0, 5, 10)),
		transfers SMALLINT NOT NULL CHECK (transfers IN (0, 5, 10, 15)),
		mobility SMALLINT NOT NULL CHECK (mobility IN (0, 5, 10, 15)),
		stairs SMALLINT NOT NULL CHECK (stairs IN (0, 5, 10)),
		total SMALLINT GENERATED ALWAYS AS (
			feeding + bathing + grooming + dressing + bowels +
			bladder + toilet_use + transfers + mobility + stairs
		) STORED,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS mrc_scales (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id),
		evaluated_at DATE NOT NULL,
		shoulder_abduction SMALLINT NOT NULL CHECK (shoulder_abduction BETWEEN 0 AND 5),
		elbow_flexion SMALLINT NOT NULL CHECK (elbow_flexion BETWEEN 0 AND 5),
		wrist_extension SMALLINT NOT NULL CHECK (wrist_extension BETWEEN 0 AND 5),
		hip_flexion SMALLINT NOT NULL CHECK (hip_flexion BETWEEN 0 AND 5),
		knee_extension SMALLINT NOT NULL CHECK (knee_extension BETWEEN 0 AND 5),
		ankle_dorsiflexion SMALLINT NOT NULL CHECK (ankle_dorsiflexion BETWEEN 0 AND 5),
		total SMALLINT GENERATED ALWAYS AS (
			shoulder_abduction + elbow_flexion + wrist_extension +
			hip_flexion + knee_extension + ankle_dorsiflexion
		) STORED,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_hospitals_client_id ON hospitals(client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_services_hospital_id ON services(hospital_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_hospital_id ON users(hospital_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_service_id ON users(service_id)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_hospital_id ON patients(hospital_id)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_service_id ON patients(service_id)`,
	`CREATE INDEX IF NOT EXISTS idx_patients_admission_date ON patients(admission_date)`,
	`CREATE INDEX IF NOT EXISTS idx_indicators_patient_id ON indicators(patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_indicators_recorded_at ON indicators(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_barthel_scales_patient_id ON barthel_scales(patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_barthel_scales_evaluated_at ON barthel_scales(evaluated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_mrc_scales_patient_id ON mrc_scales(patient_id)`,
	`CREATE INDEX IF NOT EXISTS idx_mrc_scales_evaluated_at ON mrc_scales(evaluated_at)`,
}

// tenantTables lists the tables every provisioned schema must contain,
// used for the post-provisioning verification read
var tenantTables = []string{
	"clients",
	"hospitals",
	"services",
	"users",
	"patients",
	"indicators",
	"barthel_scales",
	"mrc_scales",
}
