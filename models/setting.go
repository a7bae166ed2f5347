package models

const SettingDefaultGasPrice = "default-gas-price"

type Setting struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"column:name;size:64;uniqueIndex"`
	Value string `gorm:"column:value;size:256"`
}

func (Setting) TableName() string {
	return "poap_settings"
}
