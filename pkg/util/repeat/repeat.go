package repeat

import "time"

// Repeat retries f up to attempts times, sleeping delay between attempts,
// and returns the last error if all attempts fail.
func Repeat(f func() error, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		time.Sleep(delay)
	}

	return err
}
