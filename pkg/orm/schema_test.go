package orm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/awesome/pkg/orm"
)

func TestNewSchema(t *testing.T) {
	t.Parallel()

	t.Run("builds templates", func(t *testing.T) {
		t.Parallel()

		s, err := orm.NewSchema("users",
			orm.StringField("id", orm.PrimaryKey(), orm.DDL("varchar(50)")),
			orm.StringField("name"),
			orm.IntegerField("age"),
		)
		require.NoError(t, err)

		require.Equal(t, "SELECT `id`, `name`, `age` FROM `users`", s.SelectSQL())
		require.Equal(t, "INSERT INTO `users` (`name`, `age`, `id`) VALUES (?, ?, ?)", s.InsertSQL())
		require.Equal(t, "UPDATE `users` SET `name`=?, `age`=? WHERE `id`=?", s.UpdateSQL())
		require.Equal(t, "DELETE FROM `users` WHERE `id`=?", s.DeleteSQL())
		require.Equal(t, "id", s.PrimaryKey().Name)
		require.Equal(t, "users", s.Table())
		require.Len(t, s.Fields(), 2)
		require.Equal(t,
			"CREATE TABLE `users` (`id` varchar(50) NOT NULL PRIMARY KEY, `name` varchar(100), `age` bigint)",
			s.CreateTableSQL())
	})

	t.Run("missing primary key", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users", orm.StringField("name"))
		require.ErrorIs(t, err, orm.ErrSchema)
		require.ErrorIs(t, err, orm.ErrMissingPrimaryKey)
	})

	t.Run("duplicate primary key", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users",
			orm.StringField("id", orm.PrimaryKey()),
			orm.StringField("uid", orm.PrimaryKey()),
		)
		require.ErrorIs(t, err, orm.ErrSchema)
		require.ErrorIs(t, err, orm.ErrDuplicatePrimaryKey)
	})

	t.Run("duplicate field", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("users", orm.StringField("id", orm.PrimaryKey()), orm.StringField("id"))
		require.ErrorIs(t, err, orm.ErrDuplicateField)
	})

	t.Run("empty table", func(t *testing.T) {
		t.Parallel()

		_, err := orm.NewSchema("", orm.StringField("id", orm.PrimaryKey()))
		require.ErrorIs(t, err, orm.ErrEmptyTable)
	})

	t.Run("fields are copied", func(t *testing.T) {
		t.Parallel()

		s := orm.MustSchema("t", orm.StringField("id", orm.PrimaryKey()), orm.StringField("a"))
		fields := s.Fields()
		fields[0].Name = "changed"
		require.Equal(t, "a", s.Fields()[0].Name)
	})

	t.Run("must panics", func(t *testing.T) {
		t.Parallel()

		require.Panics(t, func() { orm.MustSchema("t") })
	})
}

func TestFieldDefaults(t *testing.T) {
	t.Parallel()

	require.Equal(t, false, orm.BooleanField("b").DefaultValue())
	require.Equal(t, int64(0), orm.IntegerField("i").DefaultValue())
	require.Equal(t, 0.0, orm.FloatField("f").DefaultValue())
	require.False(t, orm.TextField("t").HasDefault())
	require.Equal(t, "text", orm.TextField("t").ColumnType)

	calls := 0
	f := orm.StringField("s", orm.Default(func() any { calls++; return "x" }))
	require.Equal(t, "x", f.DefaultValue())
	require.Equal(t, "x", f.DefaultValue())
	require.Equal(t, 2, calls)
}

func TestTableName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "users", orm.TableName("User"))
	require.Equal(t, "blog_posts", orm.TableName("BlogPost"))
	require.Equal(t, "user_id", orm.CamelToSnake("UserID"))
}
