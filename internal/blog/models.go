package blog

import (
	"time"

	"github.com/dmitrymomot/awesome/pkg/id"
	"github.com/dmitrymomot/awesome/pkg/orm"
	"github.com/dmitrymomot/awesome/pkg/session"
)

// User is a registered account. Passwd holds sha1(id:sha1(email:password)).
type User struct {
	ID        string  `orm:"id" json:"id"`
	Email     string  `orm:"email" json:"email"`
	Passwd    string  `orm:"passwd" json:"passwd"`
	Admin     bool    `orm:"admin" json:"admin"`
	Name      string  `orm:"name" json:"name"`
	Image     string  `orm:"image" json:"image"`
	CreatedAt float64 `orm:"created_at" json:"created_at"`
}

// Principal returns the session identity of u.
func (u *User) Principal() *session.Principal {
	return &session.Principal{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Image:  u.Image,
		Admin:  u.Admin,
		Secret: u.Passwd,
	}
}

// Blog is a published post.
type Blog struct {
	ID        string  `orm:"id" json:"id"`
	UserID    string  `orm:"user_id" json:"user_id"`
	UserName  string  `orm:"user_name" json:"user_name"`
	UserImage string  `orm:"user_image" json:"user_image"`
	Name      string  `orm:"name" json:"name"`
	Summary   string  `orm:"summary" json:"summary"`
	Content   string  `orm:"content" json:"content"`
	CreatedAt float64 `orm:"created_at" json:"created_at"`
}

// Comment belongs to a blog.
type Comment struct {
	ID        string  `orm:"id" json:"id"`
	BlogID    string  `orm:"blog_id" json:"blog_id"`
	UserID    string  `orm:"user_id" json:"user_id"`
	UserName  string  `orm:"user_name" json:"user_name"`
	UserImage string  `orm:"user_image" json:"user_image"`
	Content   string  `orm:"content" json:"content"`
	CreatedAt float64 `orm:"created_at" json:"created_at"`
}

const defaultImage = "about:blank"

func nextID() any { return id.NextID() }

func unixNow() any { return unixSeconds(time.Now()) }

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

var (
	Users = orm.MustDefine[User]("users",
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("email", orm.DDL("varchar(50)")),
		orm.StringField("passwd", orm.DDL("varchar(50)")),
		orm.BooleanField("admin"),
		orm.StringField("name", orm.DDL("varchar(50)")),
		orm.StringField("image", orm.DDL("varchar(500)"), orm.Default(defaultImage)),
		orm.FloatField("created_at", orm.Default(unixNow), orm.DDL("double precision")),
	)

	Blogs = orm.MustDefine[Blog]("blogs",
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("user_id", orm.DDL("varchar(50)")),
		orm.StringField("user_name", orm.DDL("varchar(50)")),
		orm.StringField("user_image", orm.DDL("varchar(500)")),
		orm.StringField("name", orm.DDL("varchar(50)")),
		orm.StringField("summary", orm.DDL("varchar(200)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.Default(unixNow), orm.DDL("double precision")),
	)

	Comments = orm.MustDefine[Comment]("comments",
		orm.StringField("id", orm.PrimaryKey(), orm.Default(nextID), orm.DDL("varchar(50)")),
		orm.StringField("blog_id", orm.DDL("varchar(50)")),
		orm.StringField("user_id", orm.DDL("varchar(50)")),
		orm.StringField("user_name", orm.DDL("varchar(50)")),
		orm.StringField("user_image", orm.DDL("varchar(500)")),
		orm.TextField("content"),
		orm.FloatField("created_at", orm.Default(unixNow), orm.DDL("double precision")),
	)
)
