package badger

const (
	checkpointPrefix     = "chkpt:"
	checkpointMetaKey    = checkpointPrefix + "meta"
	checkpointDonePrefix = checkpointPrefix + "done:"
	checkpointFailPrefix = checkpointPrefix + "fail:"
)

func makeDoneKey(id string) []byte {
	return []byte(checkpointDonePrefix + id)
}

func makeFailKey(id string) []byte {
	return []byte(checkpointFailPrefix + id)
}
