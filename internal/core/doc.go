// Package core provides the data-management engine behind the order list.
//
// The package holds all list logic independent of any UI or transport
// layer. It can be used by web handlers, the CLI or tests without
// modification.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Records: Synthetic order rows produced by [Generate], or entered through
//     [List.Submit].
//   - Query: [Query] derives the visible view from the dataset with a search
//     text, a status filter and one sort column.
//   - List: The explicit state of one list. Every transition runs under one
//     lock and every recompute resets the page to 1.
//   - Service: Hosts one [Session] per client, each with its own [List],
//     [NotificationLog] and pending [SeedTask].
//
// # Column Registry
//
// Sortable columns are registered at init time using [RegisterColumn]. Each
// [ColumnDefinition] knows how to read its value from a [Record]:
//
//	core.RegisterColumn(ColumnDefinition{
//	    Key:   "project",
//	    Label: "Project",
//	    Kind:  ColumnText,
//	    Value: func(r Record) string { return r.Project },
//	})
//
// Date columns compare as calendar dates. Values that do not parse as a date
// ("Just now", "5 minutes ago") compare false both ways, so their relative
// order after a date sort is unspecified.
//
// # Seed Loading
//
// A new list is empty and loading. [ScheduleSeed] applies generated records
// after a delay unless the task is cancelled or the list is closed first:
//
//  1. Client calls [Service.NewSession]
//  2. The session's [SeedTask] fires after [ServiceConfig.SeedDelay]
//  3. The list is loaded and the view recomputed
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - VAL001-VAL002: Form validation errors
//   - SES001-SES003: Session errors (not found, closed, loading)
//   - QRY001-QRY003: Query and selection errors
//   - RATE001: Rate limiting
package core
