package service

// CanModify reports whether actorID may edit or delete a resource owned by
// ownerID. Superusers may modify anything.
func CanModify(actorID, ownerID int64, isSuperuser bool) bool {
	return isSuperuser || actorID == ownerID
}
