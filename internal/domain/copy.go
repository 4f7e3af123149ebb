package domain

import "time"

type CopyStatus string

const (
	CopyAvailable  CopyStatus = "Available"
	CopyCheckedOut CopyStatus = "Checked Out"
	CopyReserved   CopyStatus = "Reserved"
	CopyLost       CopyStatus = "Lost"
	CopyWithdrawn  CopyStatus = "Withdrawn"
)

type CopyCondition string

const (
	ConditionNew     CopyCondition = "New"
	ConditionGood    CopyCondition = "Good"
	ConditionWorn    CopyCondition = "Worn"
	ConditionDamaged CopyCondition = "Damaged"
)

// Copy is one physical instance of a Material held at a Branch.
// Its status is Checked Out iff exactly one active loan references it.
type Copy struct {
	ID           int32         `json:"id"`
	MaterialID   int32         `json:"material_id"`
	BranchID     int32         `json:"branch_id"`
	Barcode      string        `json:"barcode"`
	Status       CopyStatus    `json:"status"`
	Condition    CopyCondition `json:"condition"`
	Location     string        `json:"location,omitempty"`
	AcquiredDate time.Time     `json:"acquired_date"`
}
