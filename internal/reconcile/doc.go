// Package reconcile turns loosely-typed extraction output into priced tour
// lines and keeps a tour's derived fields (per diem, financial summary)
// consistent with its inputs.
//
// Everything here is pure: no I/O, no clocks, no shared state. Callers
// re-run Recompute after every mutation of a tour.
package reconcile
