package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/caskblog/internal/blogservice"
	"github.com/sushihentaime/caskblog/internal/common"
)

func (app *application) listBlogsHandler(w http.ResponseWriter, r *http.Request) {
	filter := app.readListParams(r)

	outlines, err := app.blogService.GetOutlines(r.Context(), filter)
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to fetch blog outlines")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"items": outlines}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to fetch blog outlines")
	}
}

func (app *application) getBlogHandler(w http.ResponseWriter, r *http.Request) {
	slug := app.readStringParam(r, "slug")

	blog, err := app.blogService.GetBlogBySlug(r.Context(), slug)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			app.blogNotFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err, "Failed to fetch blog")
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"item": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to fetch blog")
	}
}

func (app *application) createBlogHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.PostInput

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.CreateBlog(r.Context(), &input)
	if err != nil {
		app.writeFailureResponse(w, r, err, "Failed to create blog")
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/blogs/"+blog.Slug)

	err = app.writeJSON(w, http.StatusCreated, envelope{"item": blog}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to create blog")
	}
}

func (app *application) updateBlogHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input blogservice.PostInput

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blog, err := app.blogService.UpdateBlog(r.Context(), id, &input)
	if err != nil {
		app.writeFailureResponse(w, r, err, "Failed to update blog")
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"item": blog}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err, "Failed to update blog")
	}
}

// writeFailureResponse maps the errors returned by the write operations.
func (app *application) writeFailureResponse(w http.ResponseWriter, r *http.Request, err error, message string) {
	var validationErr common.ValidationError

	switch {
	case errors.Is(err, blogservice.ErrInvalidPassword):
		app.invalidPasswordResponse(w, r)
	case errors.Is(err, blogservice.ErrNoFields):
		app.noFieldsResponse(w, r)
	case errors.As(err, &validationErr):
		app.failedValidationErrorResponse(w, r, validationErr.Errors)
	case errors.Is(err, common.ErrRecordNotFound):
		app.blogNotFoundResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err, message)
	}
}
