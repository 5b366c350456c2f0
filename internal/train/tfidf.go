package train

import (
	"math"
	"strings"
	"unicode"
)

// Vectorización TF-IDF al estilo clásico: suavizado
// idf = ln((1+n)/(1+df)) + 1 y normalización l2 por documento.
// Los tokens de un carácter se descartan, igual que las stopwords.

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an and are as at be but by for if in into is it no not of on or " +
			"such that the their then there these they this to was will with") {
		stopwords[w] = struct{}{}
	}
}

func tokenize(doc string) []string {
	var toks []string
	var b strings.Builder
	flush := func() {
		if b.Len() < 2 {
			b.Reset()
			return
		}
		t := b.String()
		b.Reset()
		if _, stop := stopwords[t]; !stop {
			toks = append(toks, t)
		}
	}
	for _, r := range strings.ToLower(doc) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return toks
}

// tfidfVectors devuelve una fila densa por documento sobre el vocabulario
// completo, ya normalizada l2.
func tfidfVectors(docs []string) [][]float64 {
	vocab := make(map[string]int)
	tokenized := make([][]string, len(docs))
	for i, d := range docs {
		tokenized[i] = tokenize(d)
		for _, t := range tokenized[i] {
			if _, ok := vocab[t]; !ok {
				vocab[t] = len(vocab)
			}
		}
	}

	df := make([]float64, len(vocab))
	for _, toks := range tokenized {
		seen := make(map[int]struct{}, len(toks))
		for _, t := range toks {
			seen[vocab[t]] = struct{}{}
		}
		for j := range seen {
			df[j]++
		}
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for j := range idf {
		idf[j] = math.Log((1+n)/(1+df[j])) + 1
	}

	vecs := make([][]float64, len(docs))
	for i, toks := range tokenized {
		row := make([]float64, len(vocab))
		for _, t := range toks {
			row[vocab[t]] += 1 // tf crudo
		}
		var sq float64
		for j := range row {
			row[j] *= idf[j]
			sq += row[j] * row[j]
		}
		if sq > 0 {
			inv := 1 / math.Sqrt(sq)
			for j := range row {
				row[j] *= inv
			}
		}
		vecs[i] = row
	}
	return vecs
}

// linearKernel calcula los productos punto de todas las filas contra
// todas: la matriz de similitud de contenido.
func linearKernel(vecs [][]float64) [][]float64 {
	n := len(vecs)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			var s float64
			for k := range vecs[i] {
				s += vecs[i][k] * vecs[j][k]
			}
			out[i][j] = s
			out[j][i] = s
		}
	}
	return out
}
