// Package run provides the DeliveryRun aggregate and its Status state machine.
//
// Dispatch creates DRAFT runs per zone and date, the assignment use case binds
// a driver and vehicle (ASSIGNED), and operations move runs through
// IN_PROGRESS to COMPLETED, or CANCELLED from any non-terminal state.
package run
