package models

import (
	"github.com/openswap/swapex/config"
	"gorm.io/gorm"
)

func AutoMigrate() error {
	return Migrate(config.DataBase)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Order{}, &Log{})
}
