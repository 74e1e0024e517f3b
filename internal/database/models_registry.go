package database

import "tingle/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Account{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Message{},
	}
}

// PersistentTables returns the table names of PersistentModels in order.
func PersistentTables() []string {
	entities := PersistentModels()
	tables := make([]string, 0, len(entities))
	for _, m := range entities {
		if t, ok := m.(interface{ TableName() string }); ok {
			tables = append(tables, t.TableName())
		}
	}
	return tables
}
