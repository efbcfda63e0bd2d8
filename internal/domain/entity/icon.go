package entity

import "strings"

// Icon is a PatternFly or FontAwesome icon class.
//
// See https://www.patternfly.org/styles/icons/
type Icon string

const (
	IconAdd           Icon = "pficon-add-circle-o"
	IconAngleDown     Icon = "fa-angle-down"
	IconAngleLeft     Icon = "fa-angle-left"
	IconAngleRight    Icon = "fa-angle-right"
	IconAngleUp       Icon = "fa-angle-up"
	IconApplications  Icon = "pficon-applications"
	IconArrow         Icon = "pficon-arrow"
	IconCluster       Icon = "pficon-cluster"
	IconContainerNode Icon = "pficon-container-node"
	IconCPU           Icon = "pficon-cpu"
	IconError         Icon = "pficon-error-circle-o"
	IconHome          Icon = "pficon-home"
	IconOK            Icon = "pficon-ok"
	IconWarning       Icon = "pficon-warning-triangle-o"
	IconRefresh       Icon = "fa-refresh"
	IconUser          Icon = "pficon-user"
)

var knownIcons = []Icon{
	IconAdd, IconAngleDown, IconAngleLeft, IconAngleRight, IconAngleUp,
	IconApplications, IconArrow, IconCluster, IconContainerNode, IconCPU,
	IconError, IconHome, IconOK, IconWarning, IconRefresh, IconUser,
}

// IconFromClasses returns the known icon named by the last pficon-/fa- class.
func IconFromClasses(classes ClassSet) (Icon, bool) {
	var last string
	for _, c := range classes.List() {
		if strings.HasPrefix(c, "pficon-") || strings.HasPrefix(c, "fa-") {
			last = c
		}
	}
	for _, icon := range knownIcons {
		if string(icon) == last {
			return icon, true
		}
	}
	return "", false
}
