package converter

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена читается как текст (price::text), чтобы не терять масштаб NUMERIC.
type ProductModel struct {
	ID          string `db:"id"`
	Description string `db:"description"`
	Price       string `db:"price"`
}
