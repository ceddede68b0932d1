package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted model.
// The gorm models are private to this package, so migration lives here
// rather than in the callers.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&organizationModel{},
		&userModel{},
		&serviceModel{},
		&leadModel{},
		&leadNoteModel{},
		&conversionRequestModel{},
		&studentModel{},
		&registrationModel{},
		&documentModel{},
		&chatMessageModel{},
		&notificationModel{},
	)
}
