package database

import (
	"context"
	"database/sql"
)

// schema lists the CREATE TABLE statements for every table the service
// owns.  Statements are idempotent so Migrate can run on every startup.
// accounts.role carries the three access levels; the car_* columns are
// only populated for buyer accounts.  service_details.order_id is
// nullable because detail rows are inserted before their owning order
// inside the creation transaction.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		account_name     VARCHAR(64)  NOT NULL,
		role             ENUM('admin','seller','buyer') NOT NULL,
		name             VARCHAR(128) NOT NULL,
		email            VARCHAR(255) NOT NULL,
		password_hash    VARCHAR(255) NOT NULL,
		phone            VARCHAR(32)  NOT NULL,
		address          VARCHAR(255) NOT NULL,
		car_name         VARCHAR(128) NOT NULL DEFAULT '',
		car_number       VARCHAR(32)  NOT NULL DEFAULT '',
		car_dae_number   VARCHAR(64)  NOT NULL DEFAULT '',
		created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_accounts_account_name (account_name),
		UNIQUE KEY uq_accounts_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS zizeoms (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name                  VARCHAR(128) NOT NULL,
		address               VARCHAR(255) NOT NULL,
		phone                 VARCHAR(32)  NOT NULL,
		own_film_amount       BIGINT NOT NULL DEFAULT 0,
		consumed_film_amount  BIGINT NOT NULL DEFAULT 0,
		account_id            BIGINT UNSIGNED NOT NULL,
		created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_zizeoms_account (account_id),
		CONSTRAINT fk_zizeoms_account FOREIGN KEY (account_id) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS orders (
		id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		service_target VARCHAR(128) NOT NULL,
		service_date   VARCHAR(32)  NOT NULL,
		service_price  BIGINT NOT NULL,
		zizeom_id      BIGINT UNSIGNED NOT NULL,
		account_id     BIGINT UNSIGNED NOT NULL,
		car_number     VARCHAR(32) NOT NULL,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_orders_zizeom (zizeom_id),
		KEY idx_orders_account (account_id),
		KEY idx_orders_car_number (car_number),
		CONSTRAINT fk_orders_zizeom FOREIGN KEY (zizeom_id) REFERENCES zizeoms (id),
		CONSTRAINT fk_orders_account FOREIGN KEY (account_id) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS service_details (
		id                    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		name                  VARCHAR(128) NOT NULL,
		consumed_film_amount  BIGINT NOT NULL,
		due_date              VARCHAR(32) NOT NULL,
		zizeom_id             BIGINT UNSIGNED NOT NULL,
		order_id              BIGINT UNSIGNED NULL,
		created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_service_details_zizeom (zizeom_id),
		KEY idx_service_details_order (order_id),
		CONSTRAINT fk_service_details_zizeom FOREIGN KEY (zizeom_id) REFERENCES zizeoms (id),
		CONSTRAINT fk_service_details_order FOREIGN KEY (order_id) REFERENCES orders (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		account_id  BIGINT UNSIGNED NOT NULL,
		token_hash  CHAR(64) NOT NULL,
		expires_at  DATETIME NOT NULL,
		revoked_at  DATETIME NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_account (account_id),
		CONSTRAINT fk_refresh_tokens_account FOREIGN KEY (account_id) REFERENCES accounts (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.  It is safe to call on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
