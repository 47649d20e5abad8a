// Package queue implements the live order scheduler: a single pending
// collection served under either a FIFO or a weighted SMART policy, with
// workload-aware barista selection and fairness-skip accounting.
package queue
