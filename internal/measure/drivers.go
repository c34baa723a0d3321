package measure

import (
	// Registered under "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registered under "sqlite".
	_ "modernc.org/sqlite"
)
