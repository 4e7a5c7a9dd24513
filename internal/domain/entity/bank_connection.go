package entity

import (
	"time"

	"github.com/google/uuid"
)

// BankConnection holds the single active linked bank account for a business.
// Relinking replaces the row in place (upsert on business_id); the aggregator
// access token is stored encrypted, everything else is masked display data.
type BankConnection struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BusinessID           uuid.UUID `gorm:"column:business_id;type:uuid;not null;uniqueIndex" json:"business_id"`
	LinkedBy             uuid.UUID `gorm:"column:linked_by;type:uuid;not null" json:"linked_by"`
	ItemID               string    `gorm:"column:item_id;size:255;not null" json:"item_id"`
	InstitutionID        string    `gorm:"column:institution_id;size:100" json:"institution_id"`
	InstitutionName      string    `gorm:"column:institution_name;size:255" json:"institution_name"`
	AccountID            string    `gorm:"column:account_id;size:255;not null" json:"account_id"`
	AccountName          string    `gorm:"column:account_name;size:255" json:"account_name"`
	AccountMask          string    `gorm:"column:account_mask;size:8" json:"account_mask"`
	RoutingNumber        string    `gorm:"column:routing_number;size:20" json:"routing_number"`
	EncryptedAccessToken string    `gorm:"column:encrypted_access_token;type:text;not null" json:"-"`
	Status               string    `gorm:"size:20;not null;default:'verified'" json:"status"`
	CreatedAt            time.Time `gorm:"default:now()" json:"created_at"`
	UpdatedAt            time.Time `gorm:"default:now()" json:"updated_at"`
}

func (BankConnection) TableName() string {
	return "bank_connections"
}
