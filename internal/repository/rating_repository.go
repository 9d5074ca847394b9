package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// ErrInvalidParent is returned when a reply names a parent rating that does
// not exist or belongs to another movie.
var ErrInvalidParent = errors.New("parent rating does not belong to this movie")

// ErrThreadTooDeep is returned when a reply would sit more than
// MaxReplyDepth levels below its top-level rating.
var ErrThreadTooDeep = errors.New("reply thread is too deep")

// MaxReplyDepth bounds reply chains.  Threads are removed through the
// self-referencing ON DELETE CASCADE, which InnoDB stops following after
// 15 levels.
const MaxReplyDepth = 10

// RatingRepo stores ratings and the reply threads hanging off them.
type RatingRepo struct{ db *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

const ratingSelect = "SELECT r.id, r.user_id, r.movie_id, r.stars, r.parent_id, r.text, r.created_date, u.username, u.first_name, u.last_name " +
	"FROM ratings r JOIN users u ON u.id = r.user_id "

// queryRatings runs ratingSelect with the given WHERE/ORDER tail and
// fills each rating's Author display fields.
func queryRatings(ctx context.Context, q querier, tail string, args ...any) ([]model.Rating, error) {
	rows, err := q.QueryContext(ctx, ratingSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Rating{}
	for rows.Next() {
		var (
			rt     model.Rating
			stars  sql.NullInt64
			parent sql.NullInt64
			text   sql.NullString
		)
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.MovieID, &stars, &parent, &text, &rt.CreatedAt,
			&rt.Author.Username, &rt.Author.FirstName, &rt.Author.LastName); err != nil {
			return nil, err
		}
		if stars.Valid {
			s := int(stars.Int64)
			rt.Stars = &s
		}
		if parent.Valid {
			p := uint64(parent.Int64)
			rt.ParentID = &p
		}
		rt.Text = nullString(text)
		rt.Author.ID = rt.UserID
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *RatingRepo) List(ctx context.Context) ([]model.Rating, error) {
	return queryRatings(ctx, r.db, "ORDER BY r.id")
}

func (r *RatingRepo) GetByID(ctx context.Context, id uint64) (model.Rating, error) {
	rs, err := queryRatings(ctx, r.db, "WHERE r.id = ?", id)
	if err != nil {
		return model.Rating{}, err
	}
	if len(rs) == 0 {
		return model.Rating{}, ErrNotFound
	}
	return rs[0], nil
}

// Create inserts rt and sets its ID and CreatedAt.
//
// The movie row is locked first so that two concurrent top-level ratings
// by the same user serialise on it: the second one sees the first and
// fails with ErrDuplicateRating.  Replies skip the uniqueness check but
// must point at a rating of the same movie and stay within MaxReplyDepth.
// A missing movie yields ErrNotFound.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var locked uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM movies WHERE id = ? FOR UPDATE", rt.MovieID).Scan(&locked); err != nil {
			return translate(err)
		}
		if rt.IsTopLevel() {
			var n int
			if err := tx.QueryRowContext(ctx,
				"SELECT COUNT(*) FROM ratings WHERE user_id = ? AND movie_id = ? AND parent_id IS NULL",
				rt.UserID, rt.MovieID).Scan(&n); err != nil {
				return err
			}
			if n > 0 {
				return ErrDuplicateRating
			}
		} else {
			var (
				parentMovie uint64
				up          sql.NullInt64
			)
			err := tx.QueryRowContext(ctx, "SELECT movie_id, parent_id FROM ratings WHERE id = ?", *rt.ParentID).Scan(&parentMovie, &up)
			if errors.Is(err, sql.ErrNoRows) || (err == nil && parentMovie != rt.MovieID) {
				return ErrInvalidParent
			}
			if err != nil {
				return err
			}
			// depth is the number of ancestors seen; up is the next one.
			for depth := 1; up.Valid; depth++ {
				if depth >= MaxReplyDepth {
					return ErrThreadTooDeep
				}
				if err := tx.QueryRowContext(ctx, "SELECT parent_id FROM ratings WHERE id = ?", up.Int64).Scan(&up); err != nil {
					return translate(err)
				}
			}
		}
		created := time.Now().UTC().Truncate(time.Second)
		res, err := tx.ExecContext(ctx,
			"INSERT INTO ratings (user_id, movie_id, stars, parent_id, text, created_date) VALUES (?,?,?,?,?,?)",
			rt.UserID, rt.MovieID, rt.Stars, rt.ParentID, rt.Text, created)
		if err != nil {
			return translate(err)
		}
		id, err := lastID(res)
		if err != nil {
			return err
		}
		rt.ID, rt.CreatedAt = id, created
		return nil
	})
}

// Update replaces the stars and text of a rating.  Movie, author and
// parent are fixed at creation.
func (r *RatingRepo) Update(ctx context.Context, id uint64, stars *int, text *string) error {
	return affected(r.db.ExecContext(ctx, "UPDATE ratings SET stars = ?, text = ? WHERE id = ?", stars, text, id))
}

// Delete removes a rating.  Its replies go with it through the
// ratings.parent_id foreign key.
func (r *RatingRepo) Delete(ctx context.Context, id uint64) error {
	return affected(r.db.ExecContext(ctx, "DELETE FROM ratings WHERE id = ?", id))
}

// StarsForMovies returns the stars column of every rating of the given
// movies, keyed by movie id.  Text-only ratings contribute a nil entry.
func (r *RatingRepo) StarsForMovies(ctx context.Context, ids []uint64) (map[uint64][]*int, error) {
	out := make(map[uint64][]*int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	in, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx, "SELECT movie_id, stars FROM ratings WHERE movie_id IN ("+in+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var movieID uint64
		var stars sql.NullInt64
		if err := rows.Scan(&movieID, &stars); err != nil {
			return nil, err
		}
		var s *int
		if stars.Valid {
			v := int(stars.Int64)
			s = &v
		}
		out[movieID] = append(out[movieID], s)
	}
	return out, rows.Err()
}
