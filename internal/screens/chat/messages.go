package chat

// predictionDoneMsg is sent once the controller's Done channel closes.
type predictionDoneMsg struct{}

// savedMsg reports the result of persisting the finished assessment.
type savedMsg struct {
	ID  int64
	Err error
}
