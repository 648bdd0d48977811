package main

import (
	"net/http"

	"spanco/internal/domain/catalog"

	"github.com/go-chi/chi/v5"
)

// ProductPayload is the JSON form of a product write. Multipart requests carry the
// same keys as form fields, with technicalSpecification JSON-encoded.
type ProductPayload struct {
	Name                   string       `json:"name"`
	PCode                  string       `json:"PCode"`
	Description            string       `json:"description"`
	SubCategory            string       `json:"subCategory"`
	LabCategory            string       `json:"labCategory"`
	Categories             stringList   `json:"categories"`
	TechnicalSpecification techSpecList `json:"technicalSpecification"`
	Image                  stringList   `json:"image"`
}

func (p ProductPayload) input() catalog.ProductInput {
	return catalog.ProductInput{
		Name:                   p.Name,
		PCode:                  p.PCode,
		Description:            p.Description,
		SubCategoryID:          p.SubCategory,
		LabCategoryID:          p.LabCategory,
		CategoryIDs:            p.Categories,
		TechnicalSpecification: p.TechnicalSpecification,
		ImageURLs:              p.Image,
	}
}

type productPageResponse struct {
	Success bool `json:"success"`
	*catalog.ProductPage
}

type productDeletedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (app *application) writeProductPage(w http.ResponseWriter, r *http.Request, page *catalog.ProductPage, err error) {
	if err != nil {
		app.productError(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, &productPageResponse{Success: true, ProductPage: page}); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Paginated, searchable listing. search matches name, description, PCode and technical specification labels and values.
//	@Tags			products
//	@Produce		json
//	@Param			page		query		int		false	"Page (default 1)"
//	@Param			limit		query		int		false	"Page size (default 10)"
//	@Param			search		query		string	false	"Case-insensitive substring"
//	@Param			category	query		string	false	"Category ID"
//	@Param			subCategory	query		string	false	"Subcategory ID"
//	@Param			labCategory	query		string	false	"Lab category ID"
//	@Param			sortBy		query		string	false	"name, PCode, description, createdAt or updatedAt"
//	@Param			sortOrder	query		string	false	"asc or desc"
//	@Success		200			{object}	productPageResponse
//	@Failure		500			{object}	productMessageEnvelope
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	lp := catalog.ParseListParams(r.URL.Query(), catalog.DefaultProductLimit)
	page, err := app.catalog.ListProducts(r.Context(), lp)
	app.writeProductPage(w, r, page, err)
}

// listProductsByCategoryHandler godoc
//
//	@Summary		List products of a category
//	@Tags			products
//	@Produce		json
//	@Param			categoryID	path		string	true	"Category ID"
//	@Param			page		query		int		false	"Page (default 1)"
//	@Param			limit		query		int		false	"Page size (default 10)"
//	@Param			search		query		string	false	"Case-insensitive substring"
//	@Success		200			{object}	productPageResponse
//	@Failure		404			{object}	productMessageEnvelope
//	@Router			/products/category/{categoryID} [get]
func (app *application) listProductsByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	lp := catalog.ParseListParams(r.URL.Query(), catalog.DefaultProductLimit)
	page, err := app.catalog.ListProductsByCategory(r.Context(), chi.URLParam(r, "categoryID"), lp)
	app.writeProductPage(w, r, page, err)
}

// listProductsBySubcategoryHandler godoc
//
//	@Summary		List products of a subcategory
//	@Tags			products
//	@Produce		json
//	@Param			subCategoryID	path		string	true	"Subcategory ID"
//	@Param			page			query		int		false	"Page (default 1)"
//	@Param			limit			query		int		false	"Page size (default 50)"
//	@Param			search			query		string	false	"Case-insensitive substring"
//	@Success		200				{object}	productPageResponse
//	@Failure		404				{object}	productMessageEnvelope
//	@Router			/products/subcategory/{subCategoryID} [get]
func (app *application) listProductsBySubcategoryHandler(w http.ResponseWriter, r *http.Request) {
	lp := catalog.ParseListParams(r.URL.Query(), catalog.DefaultSubcategoryProductLimit)
	page, err := app.catalog.ListProductsBySubcategory(r.Context(), chi.URLParam(r, "subCategoryID"), lp)
	app.writeProductPage(w, r, page, err)
}

// listProductsByLabCategoryHandler godoc
//
//	@Summary		List products of a lab category
//	@Tags			products
//	@Produce		json
//	@Param			labCategoryID	path		string	true	"Lab category ID"
//	@Param			page			query		int		false	"Page (default 1)"
//	@Param			limit			query		int		false	"Page size (default 10)"
//	@Param			search			query		string	false	"Case-insensitive substring"
//	@Success		200				{object}	productPageResponse
//	@Failure		404				{object}	productMessageEnvelope
//	@Router			/products/labcategory/{labCategoryID} [get]
func (app *application) listProductsByLabCategoryHandler(w http.ResponseWriter, r *http.Request) {
	lp := catalog.ParseListParams(r.URL.Query(), catalog.DefaultProductLimit)
	page, err := app.catalog.ListProductsByLabCategory(r.Context(), chi.URLParam(r, "labCategoryID"), lp)
	app.writeProductPage(w, r, page, err)
}

// getProductHandler godoc
//
//	@Summary		Get product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	catalog.Product
//	@Failure		404	{object}	productMessageEnvelope
//	@Router			/products/id/{id} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	product, err := app.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		app.productError(w, r, err)
		return
	}

	if err := app.productResponse(w, http.StatusOK, product); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

// getProductByPCodeHandler godoc
//
//	@Summary		Get product by PCode
//	@Description	The code is matched case-insensitively
//	@Tags			products
//	@Produce		json
//	@Param			pcode	path		string	true	"Product code"
//	@Success		200		{object}	catalog.Product
//	@Failure		404		{object}	productMessageEnvelope
//	@Router			/products/pcode/{pcode} [get]
func (app *application) getProductByPCodeHandler(w http.ResponseWriter, r *http.Request) {
	product, err := app.catalog.GetProductByPCode(r.Context(), chi.URLParam(r, "pcode"))
	if err != nil {
		app.productError(w, r, err)
		return
	}

	if err := app.productResponse(w, http.StatusOK, product); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

// createProductHandler godoc
//
//	@Summary		Create product
//	@Description	JSON body or multipart form with an optional image file
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		ProductPayload	true	"Product"
//	@Success		201		{object}	catalog.Product
//	@Failure		400		{object}	productMessageEnvelope
//	@Failure		404		{object}	productMessageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := app.readProductInput(w, r)
	if err != nil {
		app.badRequestResponseAs(w, r, err, writeProductError)
		return
	}
	defer cleanup()

	product, err := app.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		app.productError(w, r, err)
		return
	}

	if err := app.productResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

// updateProductHandler godoc
//
//	@Summary		Update product
//	@Description	Replaces every field of the product
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			id		path		string			true	"Product ID"
//	@Param			payload	body		ProductPayload	true	"Product"
//	@Success		200		{object}	catalog.Product
//	@Failure		400		{object}	productMessageEnvelope
//	@Failure		404		{object}	productMessageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/products/{id} [put]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	in, cleanup, err := app.readProductInput(w, r)
	if err != nil {
		app.badRequestResponseAs(w, r, err, writeProductError)
		return
	}
	defer cleanup()

	product, err := app.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		app.productError(w, r, err)
		return
	}

	if err := app.productResponse(w, http.StatusOK, product); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Delete product
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	productDeletedResponse
//	@Failure		404	{object}	productMessageEnvelope
//	@Security		ApiKeyAuth
//	@Router			/products/{id} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		app.productError(w, r, err)
		return
	}

	resp := &productDeletedResponse{Success: true, Message: "Product deleted successfully"}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		app.internalServerErrorAs(w, r, err, writeProductError)
	}
}

func (app *application) readProductInput(w http.ResponseWriter, r *http.Request) (catalog.ProductInput, func(), error) {
	if !isMultipart(r) {
		var payload ProductPayload
		if err := readJSONLoose(w, r, &payload); err != nil {
			return catalog.ProductInput{}, nil, err
		}
		return payload.input(), func() {}, nil
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		return catalog.ProductInput{}, nil, err
	}
	specs, err := parseTechSpecs(form.values.Get("technicalSpecification"))
	if err != nil {
		form.Close()
		return catalog.ProductInput{}, nil, err
	}

	in := catalog.ProductInput{
		Name:                   form.values.Get("name"),
		PCode:                  form.values.Get("PCode"),
		Description:            form.values.Get("description"),
		SubCategoryID:          form.values.Get("subCategory"),
		LabCategoryID:          form.values.Get("labCategory"),
		CategoryIDs:            formList(form.values, "categories"),
		TechnicalSpecification: specs,
		Image:                  form.image,
		ImageURLs:              formList(form.values, "image"),
	}
	return in, form.Close, nil
}
