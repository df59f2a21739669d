package models

import "gorm.io/gorm"

// Migrate tạo/cập nhật bảng cho toàn bộ model
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RoomCategory{},
		&Room{},
		&Booking{},
		&ChargeCategory{},
		&FolioCharge{},
		&Payment{},
		&AuditLog{},
		&TaxSetting{},
		&TaxRate{},
		&DailyRevenue{},
	)
}
