package messages

const (
	BadStatusCodeMsg = "API returned status code %d on URL %s"
	FailedToParseMsg = "failed to parse API response"
	PlayerNotFound   = "couldn't find the player %d"
	RequestFailedMsg = "API request failed on URL %s"
	UnknownGameState = "unknown game state %q reported for game %d"
)
