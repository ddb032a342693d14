package txn

import (
	"context"

	"gorm.io/gorm"
)

// Action - побочный эффект, выполняемый вместе с локальной мутацией:
// удаление blob в удалённом хранилище, запись события в outbox.
// Действие получает транзакцию мутации и может писать в неё
type Action func(ctx context.Context, tx *gorm.DB) error

// Run выполняет локальную мутацию и компенсирующие действия как одну единицу:
// открывает транзакцию, выполняет mutate, затем действия по порядку.
// Commit происходит только если всё прошло успешно; любая ошибка
// откатывает мутацию и возвращается наверх без изменений.
//
// Это защита от состояния, когда строка удалена из БД, а её blob-изображения
// или outbox-событие - нет (и наоборот).
func Run(ctx context.Context, db *gorm.DB, mutate func(tx *gorm.DB) error, actions ...Action) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mutate(tx); err != nil {
			return err
		}

		for _, action := range actions {
			if err := action(ctx, tx); err != nil {
				return err
			}
		}

		return nil
	})
}
