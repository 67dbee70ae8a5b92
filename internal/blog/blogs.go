package blog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/awesome"
	"github.com/dmitrymomot/awesome/pkg/db"
	"github.com/dmitrymomot/awesome/pkg/orm"
)

// blogInput validates the editable blog fields.
func blogInput(args awesome.Args) (name, summary, content string, err error) {
	name = strings.TrimSpace(args.String("name"))
	summary = strings.TrimSpace(args.String("summary"))
	content = strings.TrimSpace(args.String("content"))
	switch {
	case name == "":
		return "", "", "", awesome.ValueError("name", "Name cannot be empty.")
	case summary == "":
		return "", "", "", awesome.ValueError("summary", "Summary cannot be empty.")
	case content == "":
		return "", "", "", awesome.ValueError("content", "Content cannot be empty.")
	}
	return name, summary, content, nil
}

func (h *Handler) findBlog(ctx context.Context, ex orm.Executor, id string) (*Blog, error) {
	b, err := Blogs.Find(ctx, ex, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, awesome.NotFoundError("blog", "Blog not found.")
	}
	return b, err
}

func (h *Handler) blogPage(ctx context.Context, args awesome.Args) (any, error) {
	id := args.String("id")
	b, err := Blogs.Find(ctx, h.pool, id)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, awesome.NewHTTPError(http.StatusNotFound, "blog "+id+" not found")
	}
	if err != nil {
		return nil, err
	}

	comments, err := Comments.FindAll(ctx, h.pool,
		orm.Where("`blog_id`=?", id),
		orm.OrderBy("`created_at` desc"),
	)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		awesome.TemplateKey: "blog.html",
		"blog":              b,
		"comments":          comments,
	}, nil
}

func (h *Handler) manage(context.Context, awesome.Args) (any, error) {
	return awesome.RedirectPrefix + "/manage/comments", nil
}

func (h *Handler) manageBlogs(ctx context.Context, args awesome.Args) (any, error) {
	p, blogs, err := listPage(ctx, h.pool, Blogs, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		awesome.TemplateKey: "manage_blogs.html",
		"page":              p,
		"blogs":             blogs,
	}, nil
}

func (h *Handler) manageBlogCreate(context.Context, awesome.Args) (any, error) {
	return map[string]any{
		awesome.TemplateKey: "manage_blog_edit.html",
		"blog":              &Blog{},
		"action":            "/api/blogs",
		"method":            http.MethodPost,
	}, nil
}

func (h *Handler) manageBlogEdit(ctx context.Context, args awesome.Args) (any, error) {
	b, err := h.findBlog(ctx, h.pool, args.String("id"))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		awesome.TemplateKey: "manage_blog_edit.html",
		"blog":              b,
		"action":            "/api/blogs/" + b.ID,
		"method":            http.MethodPut,
	}, nil
}

func (h *Handler) manageComments(ctx context.Context, args awesome.Args) (any, error) {
	p, comments, err := listPage(ctx, h.pool, Comments, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		awesome.TemplateKey: "manage_comments.html",
		"page":              p,
		"comments":          comments,
	}, nil
}

func (h *Handler) listBlogs(ctx context.Context, args awesome.Args) (any, error) {
	p, blogs, err := listPage(ctx, h.pool, Blogs, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": p, "blogs": blogs}, nil
}

func (h *Handler) getBlog(ctx context.Context, args awesome.Args) (any, error) {
	return h.findBlog(ctx, h.pool, args.String("id"))
}

func (h *Handler) createBlog(ctx context.Context, args awesome.Args) (any, error) {
	if err := requireAdmin(args); err != nil {
		return nil, err
	}
	name, summary, content, err := blogInput(args)
	if err != nil {
		return nil, err
	}

	u := args.Request().User()
	b := &Blog{
		UserID:    u.ID,
		UserName:  u.Name,
		UserImage: u.Image,
		Name:      name,
		Summary:   summary,
		Content:   content,
		CreatedAt: h.timestamp(),
	}
	if err := Blogs.Save(ctx, h.pool, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (h *Handler) updateBlog(ctx context.Context, args awesome.Args) (any, error) {
	if err := requireAdmin(args); err != nil {
		return nil, err
	}
	name, summary, content, err := blogInput(args)
	if err != nil {
		return nil, err
	}

	b, err := h.findBlog(ctx, h.pool, args.String("id"))
	if err != nil {
		return nil, err
	}
	b.Name, b.Summary, b.Content = name, summary, content
	if err := Blogs.Update(ctx, h.pool, b); err != nil {
		return nil, err
	}
	return b, nil
}

// deleteBlog removes a blog together with its comments.
func (h *Handler) deleteBlog(ctx context.Context, args awesome.Args) (any, error) {
	if err := requireAdmin(args); err != nil {
		return nil, err
	}
	b, err := h.findBlog(ctx, h.pool, args.String("id"))
	if err != nil {
		return nil, err
	}

	err = db.WithTx(ctx, h.pool, func(tx *db.Tx) error {
		if _, err := tx.Execute(ctx, "DELETE FROM `comments` WHERE `blog_id`=?", []any{b.ID}, false); err != nil {
			return err
		}
		return Blogs.Remove(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"id": b.ID}, nil
}

func (h *Handler) listComments(ctx context.Context, args awesome.Args) (any, error) {
	p, comments, err := listPage(ctx, h.pool, Comments, awesome.ArgDefault(args, "page", 1), h.pageSize)
	if err != nil {
		return nil, err
	}
	return map[string]any{"page": p, "comments": comments}, nil
}

func (h *Handler) createComment(ctx context.Context, args awesome.Args) (any, error) {
	u := args.Request().User()
	if u == nil {
		return nil, awesome.PermissionError("Please signin first.")
	}
	content := strings.TrimSpace(args.String("content"))
	if content == "" {
		return nil, awesome.ValueError("content", "Content cannot be empty.")
	}
	b, err := h.findBlog(ctx, h.pool, args.String("id"))
	if err != nil {
		return nil, err
	}

	cm := &Comment{
		BlogID:    b.ID,
		UserID:    u.ID,
		UserName:  u.Name,
		UserImage: u.Image,
		Content:   content,
		CreatedAt: h.timestamp(),
	}
	if err := Comments.Save(ctx, h.pool, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (h *Handler) deleteComment(ctx context.Context, args awesome.Args) (any, error) {
	if err := requireAdmin(args); err != nil {
		return nil, err
	}
	cm, err := Comments.Find(ctx, h.pool, args.String("id"))
	if errors.Is(err, orm.ErrNotFound) {
		return nil, awesome.NotFoundError("comment", "Comment not found.")
	}
	if err != nil {
		return nil, err
	}
	if err := Comments.Remove(ctx, h.pool, cm); err != nil {
		return nil, err
	}
	return map[string]any{"id": cm.ID}, nil
}
