package access

import (
	"strings"

	"github.com/farhandwi/dots/internal/domain/entity"
)

var creatorStatuses = map[string]bool{
	"1020": true, "2020": true,
	"1021": true, "2021": true,
	"1030": true, "2030": true,
}

var (
	tier1Statuses      = map[string]bool{"1020": true, "2020": true}
	tier2Statuses      = map[string]bool{"1021": true, "2021": true}
	accountingStatuses = map[string]bool{"1030": true, "1040": true, "2030": true, "2040": true}
)

// IsCreatingDots reports whether user created tx and tx is still in the approval phase
func IsCreatingDots(tx *entity.Transaction, user *entity.User) bool {
	if tx == nil || user == nil {
		return false
	}
	return strings.EqualFold(tx.CreatedBy, user.Email) && creatorStatuses[tx.Status]
}

// CheckApprovalEligibility reports whether any of roles may act on tx at its current status.
//
//   - 1020/2020: VD001 on verificator 1, or VG001 on verificator 1 when verificator 2 is empty.
//   - 1021/2021: VG001 on verificator 2, or any role on verificator 1 when verificator 2 is empty.
//   - 1030/1040/2030/2040: VA001 without a cost center.
//
// user is accepted for symmetry with the other checks; only roles decide.
func CheckApprovalEligibility(tx *entity.Transaction, user *entity.User, roles []entity.Role) bool {
	if tx == nil {
		return false
	}

	v1 := tx.CostCenterVerificator1
	v2 := tx.CostCenterVerificator2

	switch {
	case tier1Statuses[tx.Status]:
		for _, role := range roles {
			if role.UserType == entity.UserTypeDepartmentHead && sameCostCenter(role.CostCenter, v1) {
				return true
			}
			if role.UserType == entity.UserTypeGroupHead && sameCostCenter(role.CostCenter, v1) && v2 == nil {
				return true
			}
		}
	case tier2Statuses[tx.Status]:
		for _, role := range roles {
			if role.UserType == entity.UserTypeGroupHead && sameCostCenter(role.CostCenter, v2) {
				return true
			}
			// Tier 2 skipped: the tier 1 cost center decides
			if v2 == nil && sameCostCenter(role.CostCenter, v1) {
				return true
			}
		}
	case accountingStatuses[tx.Status]:
		for _, role := range roles {
			if role.UserType == entity.UserTypeAccountingVerifier && role.CostCenter == nil {
				return true
			}
		}
	}
	return false
}

// sameCostCenter compares nullable cost centers; two empty values are equal
func sameCostCenter(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
