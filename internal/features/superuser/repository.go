// Package superuser — repository.go выгружает содержимое базы
// для команды /dump: все таблицы в один текстовый артефакт.
package superuser

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository читает таблицы для дампа.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий дампа.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// dumpTables — что выгружаем и в каком порядке.
var dumpTables = []string{"users", "chats", "user_karma", "moderator_events"}

// DumpAll выгружает все таблицы в текстовый вид (TSV-подобный, по таблице на секцию).
func (r *Repository) DumpAll(ctx context.Context) ([]byte, error) {
	var b strings.Builder
	for _, table := range dumpTables {
		if err := r.dumpTable(ctx, &b, table); err != nil {
			return nil, fmt.Errorf("дамп таблицы %s: %w", table, err)
		}
	}
	return []byte(b.String()), nil
}

func (r *Repository) dumpTable(ctx context.Context, b *strings.Builder, table string) error {
	// имена таблиц приходят из фиксированного списка, не из ввода пользователя
	rows, err := r.db.Query(ctx, "SELECT * FROM "+table+" ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	b.WriteString("== " + table + " ==\n")

	fields := rows.FieldDescriptions()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	b.WriteString(strings.Join(names, "\t") + "\n")

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return err
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = fmt.Sprintf("%v", v)
		}
		b.WriteString(strings.Join(cells, "\t") + "\n")
	}
	if err := rows.Err(); err != nil {
		return err
	}

	b.WriteString("\n")
	return nil
}
