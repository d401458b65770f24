package services

// CanModify implements the author-or-read-only rule shared by posts and
// comments: reads are open to anyone, mutations require the requester to be
// the entity's author. Creation is guarded by authentication alone, which
// the API layer enforces before calling into this package.
func CanModify(requesterID, authorID uint) bool {
	return requesterID != 0 && requesterID == authorID
}
