package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"quill/internal/model"
)

func TestCreateComment(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")

	comment := seedComment(t, db, post.ID, author.ID, "Great read!")

	assert.NotEmpty(t, comment.ID)
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestCreateComment_RepeatedTextAppends(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")

	seedComment(t, db, post.ID, author.ID, "Same words")
	seedComment(t, db, post.ID, author.ID, "Same words")

	comments, err := db.ListCommentsByPost(context.Background(), post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCreateComment_Concurrent(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = db.CreateComment(context.Background(), &model.Comment{
				PostID:   post.ID,
				AuthorID: author.ID,
				Text:     fmt.Sprintf("comment %d", i),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "comment %d", i)
	}

	comments, err := db.ListCommentsByPost(context.Background(), post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestListCommentsByPost_JoinsAuthor(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")
	seedComment(t, db, post.ID, author.ID, "First!")
	seedComment(t, db, post.ID, author.ID, "Second!")

	comments, err := db.ListCommentsByPost(context.Background(), post.ID)

	assert.NoError(t, err)
	if assert.Len(t, comments, 2) {
		assert.Equal(t, "First!", comments[0].Text)
		assert.Equal(t, "Second!", comments[1].Text)
		assert.Equal(t, "Reader", comments[0].AuthorName)
		assert.Equal(t, "reader@example.com", comments[0].AuthorEmail)
	}
}

func TestListCommentsByPost_Empty(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")

	comments, err := db.ListCommentsByPost(context.Background(), post.ID)

	assert.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDeleteCommentsByPost(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db, "reader@example.com", "Reader")
	post := seedPost(t, db, author.ID, "First Post")
	keep := seedPost(t, db, author.ID, "Second Post")
	seedComment(t, db, post.ID, author.ID, "Going away")
	seedComment(t, db, keep.ID, author.ID, "Staying put")

	err := db.DeleteCommentsByPost(context.Background(), post.ID)
	assert.NoError(t, err)

	gone, err := db.ListCommentsByPost(context.Background(), post.ID)
	assert.NoError(t, err)
	assert.Empty(t, gone)

	kept, err := db.ListCommentsByPost(context.Background(), keep.ID)
	assert.NoError(t, err)
	assert.Len(t, kept, 1)
}
