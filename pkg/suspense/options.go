package suspense

import "time"

// Option configures a Resource.
type Option[T any] func(*Resource[T])

// WithStaleTime sets how long ready data is served by Fetch before it
// fetches again.
func WithStaleTime[T any](d time.Duration) Option[T] {
	return func(r *Resource[T]) {
		r.staleTime = d
	}
}

// WithRetry sets the number of retries and the delay between them.
func WithRetry[T any](count int, delay time.Duration) Option[T] {
	return func(r *Resource[T]) {
		r.retryCount = count
		r.retryDelay = delay
	}
}

// WithOnSuccess registers a callback run on the render goroutine when data
// loads.
func WithOnSuccess[T any](fn func(T)) Option[T] {
	return func(r *Resource[T]) {
		r.onSuccess = fn
	}
}

// WithOnError registers a callback run on the render goroutine when a
// fetch fails after all retries.
func WithOnError[T any](fn func(error)) Option[T] {
	return func(r *Resource[T]) {
		r.onError = fn
	}
}
