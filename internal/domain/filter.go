package domain

import "strings"

// TaskFilter selects pick or pack tasks from a fetched collection
type TaskFilter struct {
	Status   string
	Priority string
	Query    string
}

// OrderFilter selects orders from a fetched collection
type OrderFilter struct {
	Status string
	Query  string
}

// ReturnFilter selects return requests
type ReturnFilter struct {
	Status  string
	OrderID string
}

// Key returns the stable cache key for the filter
func (f TaskFilter) Key() string {
	return normalize(f.Status) + "|" + normalize(f.Priority) + "|" + strings.ToLower(strings.TrimSpace(f.Query))
}

// Key returns the stable cache key for the filter
func (f OrderFilter) Key() string {
	return normalize(f.Status) + "|" + strings.ToLower(strings.TrimSpace(f.Query))
}

// Key returns the stable cache key for the filter
func (f ReturnFilter) Key() string {
	return normalize(f.Status) + "|" + strings.TrimSpace(f.OrderID)
}

func normalize(v string) string {
	if v == "" {
		return "all"
	}
	return v
}

func matchesValue(want, got string) bool {
	return want == "" || want == "all" || want == got
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// FilterPickTasks returns the tasks matching status, priority and query in
// their original order
func FilterPickTasks(tasks []*PickTask, f TaskFilter) []*PickTask {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]*PickTask, 0, len(tasks))
	for _, t := range tasks {
		if !matchesValue(f.Status, string(t.Status)) || !matchesValue(f.Priority, string(t.Priority)) {
			continue
		}
		if query != "" && !containsFold(t.ID, query) && !containsFold(t.CustomerOrderID, query) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterPackTasks applies the task filter to pack tasks
func FilterPackTasks(tasks []*PackTask, f TaskFilter) []*PackTask {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]*PackTask, 0, len(tasks))
	for _, t := range tasks {
		if !matchesValue(f.Status, string(t.Status)) || !matchesValue(f.Priority, string(t.Priority)) {
			continue
		}
		if query != "" && !containsFold(t.ID, query) && !containsFold(t.CustomerOrderID, query) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterOrders matches status and searches order number, customer name and
// customer location
func FilterOrders(orders []*Order, f OrderFilter) []*Order {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	result := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if !matchesValue(f.Status, string(o.Status)) {
			continue
		}
		if query != "" &&
			!containsFold(o.OrderNumber, query) &&
			!containsFold(o.CustomerName, query) &&
			!containsFold(o.CustomerLocation, query) {
			continue
		}
		result = append(result, o)
	}
	return result
}

// FilterReturns matches status and order id
func FilterReturns(returns []*ReturnRequest, f ReturnFilter) []*ReturnRequest {
	result := make([]*ReturnRequest, 0, len(returns))
	for _, r := range returns {
		if !matchesValue(f.Status, string(r.Status)) {
			continue
		}
		if f.OrderID != "" && r.OrderID != f.OrderID {
			continue
		}
		result = append(result, r)
	}
	return result
}

// FilterCycleCounts matches status
func FilterCycleCounts(tasks []*CycleCountTask, status string) []*CycleCountTask {
	result := make([]*CycleCountTask, 0, len(tasks))
	for _, t := range tasks {
		if matchesValue(status, string(t.Status)) {
			result = append(result, t)
		}
	}
	return result
}
