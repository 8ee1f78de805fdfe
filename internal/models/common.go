package models

import "time"

// AuditFields is the persisted audit stamp. Each instant is kept as a date
// and as epoch milliseconds so either can be indexed or displayed.
type AuditFields struct {
	CreateDate     time.Time `bson:"create_date" db:"create_date"`
	CreateTime     int64     `bson:"create_time" db:"create_time"`
	CreateBy       string    `bson:"create_by" db:"create_by"`
	LastModifyDate time.Time `bson:"last_modify_date" db:"last_modify_date"`
	LastModifyTime int64     `bson:"last_modify_time" db:"last_modify_time"`
	LastModifyBy   string    `bson:"last_modify_by" db:"last_modify_by"`
}
