//    BiotopeGoServer
//    Copyright: E Gunderson 2024-25
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import "math"

// LogLikelihood - the joint log P(w, z) of the current state under the collapsed model
// (Griffiths & Steyvers 2004). Diagnostics only: nothing here ever feeds back into the
// sampler. Vocabularies are region-scale here, so the dense loops are cheap enough.
func (e *Engine) LogLikelihood() float64 {
	lg := func(x float64) float64 {
		v, _ := math.Lgamma(x)
		return v
	}

	K := float64(e.Cfg.Topics)
	V := float64(e.V)
	D := float64(len(e.docs))
	alpha := e.Cfg.Alpha
	eta := e.Cfg.Eta

	// topic-term side: K * [lg(V*eta) - V*lg(eta)] + sum_k [ sum_w lg(n_kw+eta) - lg(n_k+V*eta) ]
	ll := K * (lg(V*eta) - V*lg(eta))
	for k := range e.TopicTerm {
		for _, c := range e.TopicTerm[k] {
			ll += lg(float64(c) + eta)
		}
		ll -= lg(float64(e.TopicTotal[k]) + V*eta)
	}

	// doc-topic side: D * [lg(K*alpha) - K*lg(alpha)] + sum_d [ sum_k lg(n_dk+alpha) - lg(n_d+K*alpha) ]
	ll += D * (lg(K*alpha) - K*lg(alpha))
	for d := range e.DocTopic {
		for _, c := range e.DocTopic[d] {
			ll += lg(float64(c) + alpha)
		}
		ll -= lg(float64(e.docTotals[d]) + K*alpha)
	}

	return ll
}
