package models

// AllModels returns every persisted model in migration order: referenced
// tables before the tables that reference them.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Password{},
		&Follower{},
		&Post{},
		&PostMedia{},
		&PostRating{},
		&PostComment{},
		&PostReport{},
		&Tag{},
		&PostTag{},
	}
}
