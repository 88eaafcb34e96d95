package models

// ServiceArea declares a region of interest for load alerts: a zip code
// and a radius in miles around it.
type ServiceArea struct {
	BaseModel
	UserID  string  `gorm:"type:uuid;not null;index"`
	ZipCode string  `gorm:"type:varchar(10);not null"`
	Radius  float64 `gorm:"not null"` // miles
}

// AlertPreference gates which load types generate notifications for the
// user. EmailEnabled switches the whole channel off.
type AlertPreference struct {
	BaseModel
	UserID          string `gorm:"type:uuid;not null;uniqueIndex"`
	EmailEnabled    bool   `gorm:"default:true"`
	RfpAlerts       bool   `gorm:"default:true"`  // broker_post loads
	OpenTruckAlerts bool   `gorm:"default:false"` // truck_capacity loads
}
