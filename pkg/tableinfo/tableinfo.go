package tableinfo

const (
	PostsTableName = "posts"

	PostIDColumn          = "id"
	PostTitleColumn       = "title"
	PostTextColumn        = "text"
	PostPubDateColumn     = "pub_date"
	PostIsPublishedColumn = "is_published"
	PostCategoryIDColumn  = "category_id"
	PostLocationIDColumn  = "location_id"
	PostAuthorIDColumn    = "author_id"
	PostCreatedAtColumn   = "created_at"
)

const (
	CommentsTableName = "comments"

	CommentIDColumn        = "id"
	CommentPostIDColumn    = "post_id"
	CommentAuthorIDColumn  = "author_id"
	CommentTextColumn      = "text"
	CommentCreatedAtColumn = "created_at"
)

const (
	CategoriesTableName = "categories"

	CategoryIDColumn          = "id"
	CategoryTitleColumn       = "title"
	CategoryDescriptionColumn = "description"
	CategorySlugColumn        = "slug"
	CategoryIsPublishedColumn = "is_published"
	CategoryCreatedAtColumn   = "created_at"
)

const (
	LocationsTableName = "locations"

	LocationIDColumn          = "id"
	LocationNameColumn        = "name"
	LocationIsPublishedColumn = "is_published"
	LocationCreatedAtColumn   = "created_at"
)

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserEmailColumn        = "email"
	UserFirstNameColumn    = "first_name"
	UserLastNameColumn     = "last_name"
	UserPasswordHashColumn = "password_hash"
	UserIsSuperuserColumn  = "is_superuser"
	UserCreatedAtColumn    = "created_at"
)

// Qualified prefixes a column with its table name for joined queries.
func Qualified(table, column string) string {
	return table + "." + column
}
