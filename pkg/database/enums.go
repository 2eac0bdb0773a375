package database

import "strings"

// AssignmentStatus is the single status vocabulary for worker assignments
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "Pending"
	StatusAssigned  AssignmentStatus = "Assigned"
	StatusAccepted  AssignmentStatus = "Accepted"
	StatusRejected  AssignmentStatus = "Rejected"
	StatusDeclined  AssignmentStatus = "Declined"
	StatusCompleted AssignmentStatus = "Completed"
	StatusNoShow    AssignmentStatus = "NoShow"
)

var assignmentStatuses = []AssignmentStatus{
	StatusPending, StatusAssigned, StatusAccepted, StatusRejected,
	StatusDeclined, StatusCompleted, StatusNoShow,
}

// ParseAssignmentStatus matches s case-insensitively against the closed status set
func ParseAssignmentStatus(s string) (AssignmentStatus, bool) {
	for _, st := range assignmentStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// ContractStatus is the lifecycle state of a project
type ContractStatus string

const (
	ContractActive    ContractStatus = "Active"
	ContractPaused    ContractStatus = "Paused"
	ContractExpired   ContractStatus = "Expired"
	ContractCancelled ContractStatus = "Cancelled"
	ContractCompleted ContractStatus = "Completed"
)

// ParseContractStatus matches s case-insensitively against the known contract states
func ParseContractStatus(s string) (ContractStatus, bool) {
	for _, st := range []ContractStatus{ContractActive, ContractPaused, ContractExpired, ContractCancelled, ContractCompleted} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// WorkType selects how a project's rate is applied
type WorkType string

const (
	WorkHourly    WorkType = "Hourly"
	WorkContainer WorkType = "Container"
	WorkBox       WorkType = "Box"
)

// ParseWorkType matches s case-insensitively against the known work types
func ParseWorkType(s string) (WorkType, bool) {
	for _, wt := range []WorkType{WorkHourly, WorkContainer, WorkBox} {
		if strings.EqualFold(string(wt), strings.TrimSpace(s)) {
			return wt, true
		}
	}
	return "", false
}

// OrgRole is a member's role inside an organization
type OrgRole string

const (
	RoleOwner  OrgRole = "Owner"
	RoleAdmin  OrgRole = "Admin"
	RoleWorker OrgRole = "Worker"
)

// MemberStatus is whether a membership is currently usable
type MemberStatus string

const (
	MemberActive   MemberStatus = "Active"
	MemberInactive MemberStatus = "Inactive"
)

// ParseMemberStatus matches s case-insensitively against Active/Inactive
func ParseMemberStatus(s string) (MemberStatus, bool) {
	for _, st := range []MemberStatus{MemberActive, MemberInactive} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// JoinRequestStatus tracks a membership request
type JoinRequestStatus string

const (
	JoinPending  JoinRequestStatus = "Pending"
	JoinApproved JoinRequestStatus = "Approved"
	JoinRejected JoinRequestStatus = "Rejected"
)
