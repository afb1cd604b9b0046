// Package logx is lifecal's structured logging layer on top of zerolog.
//
// It provides:
//   - A small Logger value type with With()-derived fixed fields.
//   - A Service that owns the sinks (console, optional JSON file) and can
//     re-apply configuration at runtime without invalidating existing Logger
//     values.
//
// Loggers obtained from a Service stay "live": Service.Apply() swaps the
// underlying zerolog root atomically and every derived Logger picks up the
// new sinks and level on its next write.
package logx
