package internal

import "time"

// Polling schedule used against the FlexReport API. The first check only
// happens after InitialPollDelay because fresh executions never finish
// faster than that; after each non-terminal check the wait grows by
// BackoffFactor, truncated to whole seconds.
const (
	InitialPollDelay = 15 * time.Second
	BasePollDelay    = 10
	BackoffFactor    = 1.5
	MaxPollAttempts  = 5
)

// BackoffDelay returns the wait in seconds associated with the 1-based poll
// attempt: the base delay for attempt 1, multiplied by BackoffFactor and
// truncated for every attempt after it.
func BackoffDelay(base, attempt int) int {
	delay := base
	for i := 1; i < attempt; i++ {
		delay = int(float64(delay) * BackoffFactor)
	}
	return delay
}

// PollOptions tune the status polling loop. Zero values mean the production
// schedule above; Sleep and the callbacks exist so the loop can be observed
// and run without real waits in tests.
type PollOptions struct {
	InitialDelay time.Duration
	BaseDelay    int
	MaxAttempts  int

	Sleep      func(time.Duration)
	Progress   func(attempt int, status string)
	WaitNotice func(seconds int)
}

func (o *PollOptions) fillDefaults() {
	if o.InitialDelay == 0 {
		o.InitialDelay = InitialPollDelay
	}
	if o.BaseDelay == 0 {
		o.BaseDelay = BasePollDelay
	}
	if o.MaxAttempts == 0 {
		o.MaxAttempts = MaxPollAttempts
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Progress == nil {
		o.Progress = func(int, string) {}
	}
	if o.WaitNotice == nil {
		o.WaitNotice = func(int) {}
	}
}

// AwaitCompletion polls a triggered report until it reaches a terminal
// state. COMPLETED returns the report info with its download URL; FAILED
// maps to RemoteRejectedError, QUEUED to QueuedError, and a report still
// running after MaxAttempts checks to TimeoutError. No further poll is made
// once any of those is hit.
func (c *Client) AwaitCompletion(job ReportJob, opts PollOptions) (*ReportInfo, error) {
	opts.fillDefaults()

	opts.Sleep(opts.InitialDelay)

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		info, err := c.PollStatus(job.ID)
		if err != nil {
			return nil, err
		}
		opts.Progress(attempt, info.Status)

		switch info.Status {
		case StatusCompleted:
			return info, nil
		case StatusQueued:
			return nil, &QueuedError{Report: job.Name}
		case StatusFailed:
			return nil, &RemoteRejectedError{Report: job.Name, Reason: "report execution failed"}
		}

		if attempt == opts.MaxAttempts {
			return nil, &TimeoutError{Report: job.Name, Attempts: opts.MaxAttempts}
		}

		wait := BackoffDelay(opts.BaseDelay, attempt+1)
		opts.WaitNotice(wait)
		opts.Sleep(time.Duration(wait) * time.Second)
	}

	// Unreachable: the loop always returns on the last attempt.
	return nil, &TimeoutError{Report: job.Name, Attempts: opts.MaxAttempts}
}
