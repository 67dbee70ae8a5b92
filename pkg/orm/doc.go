// Package orm maps typed Go structs to single tables.
//
// A table is declared once with field constructors:
//
//	type User struct {
//		ID        string
//		Email     string
//		Admin     bool
//		Name      string
//		CreatedAt float64
//	}
//
//	var Users = orm.MustDefine[User]("users",
//		orm.StringField("id", orm.PrimaryKey(), orm.Default(func() any { return id.NextID() })),
//		orm.StringField("email", orm.DDL("varchar(50)")),
//		orm.BooleanField("admin"),
//		orm.StringField("name", orm.DDL("varchar(50)")),
//		orm.FloatField("created_at", orm.Default(func() any { return float64(time.Now().Unix()) })),
//	)
//
// Columns are matched to struct fields by the `orm` tag or the snake_case
// field name. Every operation takes an [Executor], normally a *db.Pool:
//
//	u := &User{Email: "a@example.com", Name: "A"}
//	if err := Users.Save(ctx, pool, u); err != nil { ... } // u.ID and u.CreatedAt are filled
//
//	u, err := Users.Find(ctx, pool, u.ID)                   // orm.ErrNotFound when absent
//	all, err := Users.FindAll(ctx, pool, orm.OrderBy("created_at desc"), orm.LimitOffset(0, 10))
//	n, err := Users.Count(ctx, pool, orm.Where("admin=?", true))
//
// A zero field value counts as unset: Save replaces it with the field's default,
// Update writes it as is.
package orm
