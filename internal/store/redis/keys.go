package redis

import "fmt"

// Key prefix for all stored data
const keyPrefix = "pickup"

// docKey returns the Redis key for a document
func docKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", keyPrefix, collection, id)
}

// collectionIndexKey returns the Redis key for the SET of document ids
// in a collection
func collectionIndexKey(collection string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, collection)
}

// changeChannel returns the pub/sub channel for a document's change
// notifications
func changeChannel(collection, id string) string {
	return fmt.Sprintf("%s:sub:%s:%s", keyPrefix, collection, id)
}
