package reconcile

import "fmt"

// Report accumulates the ordered result lines and counters of one
// invocation. Line order matches realm-major, key-minor iteration order.
type Report struct {
	Lines   []string
	Created int
	Updated int
	Deleted int
	Skipped int
	Listed  int

	// RealmLabel is the realm shown in the rendered report header.
	RealmLabel string
}

// Add appends one result line.
func (r *Report) Add(line string) {
	r.Lines = append(r.Lines, line)
}

// Addf appends one formatted result line.
func (r *Report) Addf(format string, args ...any) {
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

// FinishCreate appends the create summary line.
func (r *Report) FinishCreate() {
	r.Addf("Done. Created: %d, Skipped: %d.", r.Created, r.Skipped)
}

// FinishUpdate appends the update summary line.
func (r *Report) FinishUpdate() {
	r.Addf("Done. Updated: %d, Skipped: %d.", r.Updated, r.Skipped)
}

// FinishDelete appends the delete summary line.
func (r *Report) FinishDelete() {
	r.Addf("Done. Deleted: %d, Skipped: %d.", r.Deleted, r.Skipped)
}

// FinishList appends the list total line.
func (r *Report) FinishList() {
	r.Addf("Total: %d", r.Listed)
}
