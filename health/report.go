package health

import (
	"sort"

	"github.com/c360/semfilter/component"
)

// Aggregate combines instance statuses. Any unhealthy instance makes the
// aggregate unhealthy; otherwise any degraded instance makes it degraded.
func Aggregate(name string, subs []Status) Status {
	if len(subs) == 0 {
		return newStatus(name, StatusHealthy, "No components running")
	}

	worst := StatusHealthy
	for _, sub := range subs {
		switch sub.Status {
		case StatusUnhealthy:
			worst = StatusUnhealthy
		case StatusDegraded:
			if worst == StatusHealthy {
				worst = StatusDegraded
			}
		}
	}

	var s Status
	switch worst {
	case StatusUnhealthy:
		s = newStatus(name, worst, "One or more components are unhealthy")
	case StatusDegraded:
		s = newStatus(name, worst, "One or more components are degraded")
	default:
		s = newStatus(name, worst, "All components are healthy")
	}
	s.SubStatuses = append([]Status(nil), subs...)
	return s
}

// Report aggregates the health of every instance in the registry, ordered
// by instance name
func Report(name string, registry *component.Registry) Status {
	comps := registry.ListComponents()
	names := make([]string, 0, len(comps))
	for n := range comps {
		names = append(names, n)
	}
	sort.Strings(names)

	subs := make([]Status, 0, len(names))
	for _, n := range names {
		subs = append(subs, FromComponent(n, comps[n]))
	}
	return Aggregate(name, subs)
}
