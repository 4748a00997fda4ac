package imgpostgres

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/UnendingLoop/ImageManager/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

func (p PostgresRepo) Create(ctx context.Context, n *model.Image) error {
	query := `INSERT INTO images (name, file_path, upload_date, resolution, size, tags)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id`
	return p.DB.QueryRowContext(ctx, query, n.Name, n.FilePath, n.UploadDate, n.Resolution, n.Size, n.Tags).Scan(&n.ID)
}

func (p PostgresRepo) Get(ctx context.Context, id int64) (*model.Image, error) {
	query := `SELECT id, name, file_path, upload_date, resolution, size, tags
	FROM images
	WHERE id = $1`
	var image model.Image

	err := p.DB.QueryRowContext(ctx, query, id).Scan(&image.ID,
		&image.Name,
		&image.FilePath,
		&image.UploadDate,
		&image.Resolution,
		&image.Size,
		&image.Tags)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrImageNotFound
		default:
			return nil, err // 500
		}
	}
	return &image, nil
}

// GetList - пагинация offset/limit, порядок выдачи - порядок вставки
func (p PostgresRepo) GetList(ctx context.Context, skip, limit int) ([]model.Image, error) {
	query := `SELECT id, name, file_path, upload_date, resolution, size, tags
	FROM images
	ORDER BY id
	LIMIT $1
	OFFSET $2`

	rows, err := p.DB.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	images := make([]model.Image, 0, limit)
	for rows.Next() {
		var image model.Image
		if err := rows.Scan(&image.ID,
			&image.Name,
			&image.FilePath,
			&image.UploadDate,
			&image.Resolution,
			&image.Size,
			&image.Tags); err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return images, nil
}

// Update - меняет только name и tags, производные поля не трогаем
func (p PostgresRepo) Update(ctx context.Context, n *model.Image) error {
	query := `UPDATE images SET name = $1, tags = $2 WHERE id = $3`

	res, err := p.DB.ExecContext(ctx, query, n.Name, n.Tags, n.ID)
	if err != nil {
		return err // 500
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrImageNotFound // 404
	}
	return nil
}

func (p PostgresRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM images
	WHERE id = $1`

	res, err := p.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err // 500
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrImageNotFound // 404
	}
	return nil
}
