/*
Package quiz implements the linear questionnaire model.

Questions are kept in authoring order; show-conditions hide questions until a prior
answer matches, and next-question-ids let a question or one of its options jump ahead.
ComputePath derives the questions a participant will actually see, so progress is
always measured against the current path rather than the whole list.

Runner drives an attempt from the client side with debounced remote saves, and
Service is the matching server side. Evaluate turns screening answers into a profile
with detected gaps, which feeds feedback generation.
*/
package quiz
